// Package adapter contributes the directives a web project needs to a
// section: runtime directories, static files, error pages, the master
// FIFO and background tasks.
package adapter

import (
	"path"
	"sort"

	"github.com/redhatinsights/uwsgiconf/internal/envs"
	"github.com/redhatinsights/uwsgiconf/pkg/config"
	"github.com/redhatinsights/uwsgiconf/pkg/fifo"
	"github.com/redhatinsights/uwsgiconf/pkg/options/mainprocess"
	"github.com/redhatinsights/uwsgiconf/pkg/options/masterprocess"
)

// Contributor adds directives to a section.
type Contributor interface {
	Contribute(s *config.Section) (*config.Section, error)
}

// Task is a command run on a schedule by the master process.
type Task struct {
	Command  string
	Schedule masterprocess.CronTask
}

// Project describes a web project.
type Project struct {
	Name string
	// Project directory the server changes into before loading the
	// application.
	Dir string
	// Directory for the FIFO and pid file. Defaults to
	// {runtime_dir}/{project_name}.
	RuntimeDir string
	// URL prefix to directory maps served without the application.
	Statics map[string]string
	// Directory holding 403.html, 404.html and 500.html.
	ErrorPagesDir string
	// Background tasks, not scheduled while the application handles
	// maintenance itself.
	Tasks []Task
	// Reload when any of these files is touched.
	TouchReload []string
}

func (p *Project) runtimeDir() string {
	if p.RuntimeDir != "" {
		return p.RuntimeDir
	}
	return "{project_runtime_dir}"
}

// FIFOPath returns the master FIFO path, unresolved placeholders included.
func (p *Project) FIFOPath() string {
	return path.Join(p.runtimeDir(), "master.fifo")
}

// FIFO returns a controller of the project's master FIFO as resolved in s.
func (p *Project) FIFO(s *config.Section) *fifo.Controller {
	return fifo.New(s.ReplacePlaceholders(p.FIFOPath()))
}

// Contribute adds the project directives to s.
func (p *Project) Contribute(s *config.Section) (*config.Section, error) {
	if p.Name != "" {
		s.SetProjectName(p.Name)
	}

	runtimeDir := s.ReplacePlaceholders(p.runtimeDir())
	s.MainProcess().RunCommandOnEvent("mkdir -p "+runtimeDir, mainprocess.PhaseAsRoot)
	if p.Dir != "" {
		s.MainProcess().ChangeDir(p.Dir, false)
	}
	s.MainProcess().
		SetPIDFile(path.Join(runtimeDir, "server.pid"), false, false).
		MainProcess().SetBasicParams(mainprocess.BasicParams{TouchReload: p.TouchReload}).
		MasterProcess().SetBasicParams(masterprocess.BasicParams{FIFOFile: []string{p.FIFOPath()}})

	mountpoints := make([]string, 0, len(p.Statics))
	for mountpoint := range p.Statics {
		mountpoints = append(mountpoints, mountpoint)
	}
	sort.Strings(mountpoints)
	for _, mountpoint := range mountpoints {
		s.Statics().RegisterStaticMap(mountpoint, p.Statics[mountpoint], false, false)
	}

	if p.ErrorPagesDir != "" {
		if _, err := s.Routing().SetErrorPages(nil, p.ErrorPagesDir); err != nil {
			return s, err
		}
	}

	if !envs.IsMaintenanceInplace() {
		for _, task := range p.Tasks {
			s.MasterProcess().AddCronTask(task.Command, task.Schedule)
		}
	}
	return s, nil
}

// Section returns a new section with the project contributed.
func (p *Project) Section(opts ...config.SectionOption) (*config.Section, error) {
	return p.Contribute(config.NewSection(opts...))
}
