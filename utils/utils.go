package utils

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the Computerome site settings shared by the commands.
type Config struct {
	Account     string
	Reservation string
	NodeType    string
	Profile     string
	AppsDir     string
	PipelineDir string
	QsubCommand string
	Throttle    time.Duration
	Bed         string
	Panel       string
}

const projectDir = "/home/projects/HT2_leukngs"

func setDefaults(v *viper.Viper) {
	v.SetDefault("account", "HT2_leukngs")
	v.SetDefault("reservation", "HT2_leukngs.916947")
	v.SetDefault("node_type", "thinnode")
	v.SetDefault("profile", projectDir+"/apps/github/shared_utils/shared_bash_profile")
	v.SetDefault("apps_dir", projectDir+"/apps/github/code")
	v.SetDefault("pipeline_dir", projectDir+"/apps/github/code/pipeline")
	v.SetDefault("qsub_command", "qsub")
	v.SetDefault("throttle", "1s")
	v.SetDefault("bed", projectDir+"/data/references/hg37/USCS.hg37.canonical.exons.bed")
	v.SetDefault("panel", projectDir+"/data/references/general/315_genes_of_interest.txt")
}

// ReadConfig loads the site settings. configPath may be empty, then
// leukngs.yaml is looked up in the working directory and $HOME/.config.
// A missing file keeps the defaults. LEUKNGS_* environment variables
// override file values.
func ReadConfig(configPath string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("leukngs")
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("leukngs")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound || configPath != "" {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := Config{
		Account:     v.GetString("account"),
		Reservation: v.GetString("reservation"),
		NodeType:    v.GetString("node_type"),
		Profile:     v.GetString("profile"),
		AppsDir:     v.GetString("apps_dir"),
		PipelineDir: v.GetString("pipeline_dir"),
		QsubCommand: v.GetString("qsub_command"),
		Throttle:    v.GetDuration("throttle"),
		Bed:         v.GetString("bed"),
		Panel:       v.GetString("panel"),
	}
	return cfg, nil
}

// RunCapture runs a tool and returns its stdout. stderr goes to the terminal.
func RunCapture(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return stdout.Bytes(), nil
}

// CheckDeps reports the tools that are not on $PATH.
func CheckDeps(tools ...string) error {
	var missing []string
	for _, tool := range tools {
		if _, err := exec.LookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("not found on PATH: %s (try module load)", strings.Join(missing, ", "))
	}
	return nil
}
