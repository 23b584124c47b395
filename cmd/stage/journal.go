package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-stage/internal/platform/tui"
	"github.com/vovakirdan/tui-stage/internal/storage"
)

var (
	flagBrowse bool
	flagLimit  int
)

var journalCmd = &cobra.Command{
	Use:   "journal [session]",
	Short: "Show recorded sessions or the actions of one session",
	Long: `Display the action journal written by 'stage play --journal' and
'stage serve --journal'.

Without arguments, lists the most recent sessions and a count of every
action type. With a session id (or a unique prefix of one), lists that
session's actions in dispatch order.

Examples:
  stage journal
  stage journal 3f2a9c1e
  stage journal --browse`,
	Args: cobra.MaximumNArgs(1),
	Run:  runJournal,
}

func init() {
	journalCmd.Flags().BoolVar(&flagBrowse, "browse", false, "Browse the journal interactively")
	journalCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of sessions to list")
}

func runJournal(cmd *cobra.Command, args []string) {
	journal, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening journal: %v\n", err)
		os.Exit(1)
	}
	defer journal.Close()

	session := ""
	if len(args) == 1 {
		session, err = journal.FindSession(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintln(os.Stderr, "Run 'stage journal' to see recorded sessions.")
			os.Exit(1)
		}
	}

	if flagBrowse {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunJournal(journal, session, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error running journal browser: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if session != "" {
		printActions(journal, session)
		return
	}
	printSessions(journal)
}

func printSessions(journal *storage.Journal) {
	sessions, err := journal.RecentSessions(flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving sessions: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Recent sessions")
	fmt.Println()

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet.")
		fmt.Println()
		fmt.Println("Run 'stage play --journal' to record one.")
		return
	}

	fmt.Printf("  %-8s  %-24s  %-7s  %s\n", "ID", "Host", "Actions", "Started")
	fmt.Printf("  %-8s  %-24s  %-7s  %s\n", "--", "----", "-------", "-------")
	for _, s := range sessions {
		fmt.Printf("  %-8s  %-24s  %-7d  %s\n", s.ID[:min(8, len(s.ID))], s.Host, s.Actions, s.StartedAt.Format("2006-01-02 15:04"))
	}

	counts, err := journal.ActionCounts()
	if err != nil || len(counts) == 0 {
		return
	}
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	fmt.Println()
	fmt.Println("Actions by type")
	fmt.Println()
	for _, k := range kinds {
		fmt.Printf("  %-28s  %d\n", k, counts[k])
	}
}

func printActions(journal *storage.Journal, session string) {
	entries, err := journal.SessionActions(session)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving actions: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Session %s\n", session)
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No actions recorded.")
		return
	}

	fmt.Printf("  %-5s  %-28s  %s\n", "Seq", "Type", "Payload")
	fmt.Printf("  %-5s  %-28s  %s\n", "---", "----", "-------")
	for _, e := range entries {
		fmt.Printf("  %-5d  %-28s  %s\n", e.Seq, e.Type, e.Payload)
	}
}
