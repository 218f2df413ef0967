package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/config"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List configured projects and projects with tracked time",
	Args:  cobra.NoArgs,
	RunE:  runProjects,
}

func runProjects(cmd *cobra.Command, args []string) error {
	s := openSession()
	snap := s.tr.Snapshot()
	s.close()

	out := cmd.OutOrStdout()
	known := map[string]bool{}
	for _, p := range s.cfg.Projects {
		fmt.Fprintf(out, "%-12s%s\n", p.ID, p.Name)
		known[p.Name] = true
	}

	var tracked []string
	for _, e := range snap.Entries {
		if !known[e.Project] {
			known[e.Project] = true
			tracked = append(tracked, e.Project)
		}
	}
	sort.Strings(tracked)
	for _, name := range tracked {
		fmt.Fprintf(out, "%-12s%s\n", "-", name)
	}

	if len(s.cfg.Projects) == 0 && len(tracked) == 0 {
		fmt.Fprintf(out, "No projects. Add some to %s.\n", config.FilePath(s.base))
	}
	return nil
}
