package qsub

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/valyala/fasttemplate"
)

// ArrayIDVar is the placeholder PBS substitutes with the array index.
const ArrayIDVar = "$PBS_ARRAYID"

// JobSpec describes one PBS job script.
type JobSpec struct {
	Name     string
	Script   string
	Workdir  string
	OutBase  string
	Nproc    int
	Memory   string
	Walltime string
	// Python selects the interpreter modules loaded before the script. 2
	// swaps anaconda3 for anaconda2.
	Python  int
	WaitFor string
	// Array is a job array range such as 608-631. At most MaxJobs of its
	// jobs run at a time.
	Array        string
	MaxJobs      int
	ExtraPBS     string
	Reserve      bool
	Verbose      bool
	Tunnel       bool
	MoveOutfiles bool

	Account     string
	Reservation string
	NodeType    string
	Profile     string
}

// ArgumentError is a user-facing problem with the submission arguments.
type ArgumentError struct {
	Flag string
	Msg  string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Flag, e.Msg)
}

// CheckArrayScript fails when an array range is requested for a script
// that never reads the array index.
func CheckArrayScript(array, script string) error {
	if array != "" && !strings.Contains(script, ArrayIDVar) {
		return &ArgumentError{Flag: "--array", Msg: "when using -a the script needs to contain " + ArrayIDVar}
	}
	return nil
}

// ArrayDirective returns the job array line, limiting concurrent jobs to maxJobs.
func ArrayDirective(array string, maxJobs int) string {
	if array == "" {
		return ""
	}
	return "#PBS -t " + array + "%" + strconv.Itoa(maxJobs)
}

// TunnelDirectives opens and closes the Sentieon license tunnel with the
// scripts found in home.
func TunnelDirectives(home string) string {
	return fmt.Sprintf("#PBS -l prologue=%s/sentieonstart.sh\n#PBS -l epilogue=%s/sentieonstop.sh", home, home)
}

// ConfigureOutfiles returns the directory receiving the .out and .err files.
// With move set it is a sample folder named after the sample (second word
// of the script) and the version of the pipeline the script's first word
// links to in pipelineDir.
func ConfigureOutfiles(workdir, script, pipelineDir string, move bool) (string, error) {
	if !move {
		return workdir, nil
	}
	words := strings.Fields(script)
	if len(words) < 2 {
		return "", &ArgumentError{Flag: "--move-outfiles", Msg: "script must start with a pipeline and a sample name"}
	}
	pipeline, sample := words[0], words[1]
	target, err := os.Readlink(filepath.Join(pipelineDir, pipeline))
	if err != nil {
		return "", fmt.Errorf("reading pipeline link: %w", err)
	}
	parts := strings.Split(target, "_")
	version := strings.ReplaceAll(parts[len(parts)-1], ".sh", "")
	return workdir + "/" + sample + "." + version, nil
}

// memoryString adds a gb unit to plain numbers.
func memoryString(memory string) string {
	if _, err := strconv.Atoi(memory); err == nil {
		return memory + "gb"
	}
	return memory
}

const qsubHeader = `#!/bin/sh
### Note: No commands may be executed until after the #PBS lines
### Account information
#PBS -W group_list={{account}} -A {{account}}
{{depend}}{{reserve}}### Job name (comment out the next line to get the name of the script used as the job name)
#PBS -N {{name}}
### Output files (comment out the next 2 lines to get the job name used instead)
#PBS -e {{out_base}}/{{name}}.err
#PBS -o {{out_base}}/{{name}}.out
### Email: no (n)
#PBS -M n
### Make the job rerunable (y)
#PBS -r y
### Number of nodes
#PBS -l nodes=1:ppn={{nproc}}:{{node_type}}
#PBS -l walltime={{walltime}}
#PBS -l mem={{memory}}
{{extra}}
echo This is the STDOUT stream from a PBS Torque submission script.
# Go to the directory from where the job was submitted (initial directory is $HOME)
echo Working directory is $PBS_O_WORKDIR
cd $PBS_O_WORKDIR

# Get number of processors
export NPROC={{nproc}}
echo "This job has allocated $NPROC nodes"

# Load user Bash settings:
source {{profile}}
{{modules}}
start=` + "`date +%s`" + `
echo "Now the user defined script is run. After the ---- line, the STDOUT stream from the script is pasted."
echo "Start at ` + "`date`" + `"
echo "-----------------------------------------------------------------------------------------------------"
{{verbose}}
{{script}}

{{move}}
echo "-----------------------------------------------------------------------------------------------------"
echo "End at ` + "`date`" + `"
end=` + "`date +%s`" + `
runtime=$((end-start))
echo Runtime: $runtime seconds
sleep 5
exit 0
`

var headerTemplate = fasttemplate.New(qsubHeader, "{{", "}}")

// Render returns the text of the job script.
func Render(spec JobSpec) (string, error) {
	if err := CheckArrayScript(spec.Array, spec.Script); err != nil {
		return "", err
	}
	if spec.Name == "" {
		return "", &ArgumentError{Flag: "--name", Msg: "job name is empty"}
	}
	if spec.Nproc < 1 {
		return "", &ArgumentError{Flag: "--nproc", Msg: fmt.Sprintf("need at least one processor, got %d", spec.Nproc)}
	}
	var extra []string
	if a := ArrayDirective(spec.Array, spec.MaxJobs); a != "" {
		extra = append(extra, a)
	}
	if spec.ExtraPBS != "" {
		extra = append(extra, spec.ExtraPBS)
	}
	vars := map[string]interface{}{
		"account":   spec.Account,
		"name":      spec.Name,
		"out_base":  spec.OutBase,
		"nproc":     strconv.Itoa(spec.Nproc),
		"node_type": spec.NodeType,
		"walltime":  spec.Walltime,
		"memory":    memoryString(spec.Memory),
		"extra":     strings.Join(extra, "\n"),
		"profile":   spec.Profile,
		"script":    spec.Script,
		"depend":    "",
		"reserve":   "",
		"modules":   "",
		"verbose":   "",
		"move":      "",
	}
	if spec.WaitFor != "" {
		vars["depend"] = "#PBS -W depend=afterok:" + spec.WaitFor + "\n"
	}
	if spec.Reserve {
		vars["reserve"] = "#PBS -l advres=" + spec.Reservation + "\n"
	}
	if spec.Python == 2 {
		vars["modules"] = "module unload anaconda3\nmodule load anaconda2/4.0.0\n"
	}
	if spec.Verbose {
		vars["verbose"] = "set -vx"
	}
	if spec.MoveOutfiles {
		vars["move"] = "mv $PBS_O_WORKDIR/$PBS_JOBNAME.qsub " + spec.OutBase
	}
	return headerTemplate.ExecuteString(vars), nil
}

// WriteQsub writes the job script to <workdir>/<name>.qsub and returns its
// path. Nothing is written when the spec is rejected.
func WriteQsub(spec JobSpec) (string, error) {
	text, err := Render(spec)
	if err != nil {
		return "", err
	}
	fname := filepath.Join(spec.Workdir, spec.Name+".qsub")
	if err := os.WriteFile(fname, []byte(text), 0644); err != nil {
		return "", fmt.Errorf("writing qsub file: %w", err)
	}
	return fname, nil
}
