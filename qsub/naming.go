package qsub

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// DefaultMaxNumber bounds the counter appended by NumberFiles.
const DefaultMaxNumber = 99

// an extension is a dot followed by letters, "_2" or ".2" is part of the name
var extensionRe = regexp.MustCompile(`^\.[a-zA-Z]+`)

// splitExt splits the last extension from p. Leading dots of the final
// path element are not extensions, so ".bashrc" has none.
func splitExt(p string) (string, string) {
	sep := strings.LastIndex(p, "/")
	dot := strings.LastIndex(p, ".")
	if dot <= sep {
		return p, ""
	}
	for i := sep + 1; i < dot; i++ {
		if p[i] != '.' {
			return p[:dot], p[dot:]
		}
	}
	return p, ""
}

// PathSplitExtension splits fname into root and extension like splitExt,
// but keeps a double extension such as ".vcf.gz" together. A name that is
// only an extension (".tsv") gives ("", ".tsv").
func PathSplitExtension(fname string) (string, string) {
	root, extension := splitExt(fname)
	if extension == "" && strings.HasPrefix(root, ".") && !strings.Contains(root, "/") {
		extension = root
		root = ""
	}
	root, extra := splitExt(root)
	if extensionRe.MatchString(extra) {
		return root, extra + extension
	}
	return root + extra, extension
}

// FilenameSuffix adds suffix after a '_' to fname, before the extension.
// A suffix containing a period replaces the extension. Names without an
// extension get ".fa".
func FilenameSuffix(fname, suffix string) string {
	if fname == "/dev/stdin" {
		fname = ""
	}
	fname = strings.TrimRight(fname, "_")
	suffix = strings.Trim(suffix, "_")
	if suffix == "" {
		return fname
	}
	root, extension := PathSplitExtension(fname)
	if root != "" && !strings.HasPrefix(suffix, ".") {
		root += "_"
	}
	if strings.Contains(suffix, ".") {
		return root + suffix
	}
	if extension != "" {
		return root + suffix + extension
	}
	return root + suffix + ".fa"
}

func isFile(name string) bool {
	info, err := os.Stat(name)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// NumberFiles gives every filename the same zero padded number, the
// smallest in 0..maxNumber for which none of the numbered files exist.
// When every number is taken maxNumber is used and files get overwritten.
func NumberFiles(filenames []string, maxNumber int) []string {
	width := len(strconv.Itoa(maxNumber))
	var names []string
	for i := 0; i <= maxNumber; i++ {
		suffix := fmt.Sprintf("%0*d", width, i)
		names = make([]string, len(filenames))
		taken := false
		for j, name := range filenames {
			names[j] = FilenameSuffix(name, suffix)
			if isFile(names[j]) {
				taken = true
			}
		}
		if !taken {
			return names
		}
	}
	return names
}

// JobName returns the name to use for the .qsub, .out and .err files in
// workdir. With numbering a counter is appended so no existing files are
// overwritten.
func JobName(workdir, name string, numbering bool) string {
	root := workdir + "/" + name
	outfiles := []string{root + ".qsub", root + ".out", root + ".err"}
	if numbering {
		outfiles = NumberFiles(outfiles, DefaultMaxNumber)
	} else {
		for _, f := range outfiles {
			if isFile(f) {
				fmt.Println("# submission files will be overwritten")
				break
			}
		}
	}
	base, _ := splitExt(filepath.Base(outfiles[0]))
	return base
}

// Walltime formats a PBS wall-time, e.g. "2:05:00".
func Walltime(hours, minutes, seconds int) string {
	return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
}
