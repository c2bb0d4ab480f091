// Package quickstart produces the precomputed web descriptor that lets the
// bootstrap runtime start a web application without scanning it.
//
// The descriptor is rendered from the exploded application directory by an
// external tool, typically the servlet container's own preconfigure step.
// [Existing] accepts a descriptor the build already produced; [Command] runs
// a configured tool first.
package quickstart

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/matzehuels/warpack/pkg/errors"
)

// DescriptorName is the file name of the quickstart descriptor, both inside
// WEB-INF and at the root of the packaged archive.
const DescriptorName = "quickstart-web.xml"

// maxStderr limits how much tool output ends up in an error message.
const maxStderr = 2048

// Preconfigurer renders the quickstart descriptor for an exploded web
// application directory.
type Preconfigurer interface {
	// Preconfigure returns the path of the descriptor for appDir. It fails
	// with QUICKSTART_FAILED when the descriptor cannot be produced.
	Preconfigure(ctx context.Context, appDir string) (string, error)
}

// DescriptorPath returns where the descriptor of appDir is expected.
func DescriptorPath(appDir string) string {
	return filepath.Join(appDir, "WEB-INF", DescriptorName)
}

// Existing is a Preconfigurer for builds that already rendered the
// descriptor.
type Existing struct{}

// Preconfigure checks that the descriptor exists.
func (Existing) Preconfigure(ctx context.Context, appDir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return checkDescriptor(appDir)
}

// Command runs an external tool to render the descriptor.
//
// The application directory is appended to Args as the final argument, so
// Args = ["java", "-cp", cp, "org.example.Preconfigure"] runs
// "java -cp cp org.example.Preconfigure <appDir>".
type Command struct {
	Args []string
	Dir  string   // Working directory; empty means the current one
	Env  []string // Extra KEY=VALUE pairs added to the inherited environment
}

// Preconfigure runs the tool and checks that it produced the descriptor.
func (c *Command) Preconfigure(ctx context.Context, appDir string) (string, error) {
	if len(c.Args) == 0 {
		return "", errors.New(errors.ErrCodeQuickstart, "no preconfigure command configured")
	}
	info, err := os.Stat(appDir)
	if err != nil || !info.IsDir() {
		return "", errors.New(errors.ErrCodeQuickstart, "application directory %s not found", appDir)
	}

	args := append(append([]string(nil), c.Args[1:]...), appDir)
	cmd := exec.CommandContext(ctx, c.Args[0], args...)
	cmd.Dir = c.Dir
	cmd.Env = append(os.Environ(), c.Env...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", errors.Wrap(errors.ErrCodeQuickstart, err, "preconfigure %s%s", appDir, stderrTail(stderr.Bytes()))
	}
	return checkDescriptor(appDir)
}

func checkDescriptor(appDir string) (string, error) {
	path := DescriptorPath(appDir)
	info, err := os.Stat(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeQuickstart, err, "quickstart descriptor missing")
	}
	if !info.Mode().IsRegular() {
		return "", errors.New(errors.ErrCodeQuickstart, "quickstart descriptor %s is not a regular file", path)
	}
	return path, nil
}

func stderrTail(b []byte) string {
	s := strings.TrimSpace(string(b))
	if s == "" {
		return ""
	}
	if len(s) > maxStderr {
		s = "..." + s[len(s)-maxStderr:]
	}
	return ": " + s
}
