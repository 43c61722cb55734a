package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/truthortrap/trap-server-go/internal/game"
)

var (
	from     = flag.Int("from", 0, "first entry to print")
	to       = flag.Int("to", -1, "last entry to print (-1 for the end)")
	dumpJSON = flag.Int("state", -1, "print the full state of one entry as JSON")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <file.replay>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	replay, err := game.LoadReplayFromFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load replay: %v\n", err)
		os.Exit(1)
	}

	if *dumpJSON >= 0 {
		if err := printState(os.Stdout, replay, *dumpJSON); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("Game %s: %d entries\n\n", replay.GameID, replay.Size())
	if err := printEntries(os.Stdout, replay, *from, *to); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func printEntries(w io.Writer, replay *game.Replay, first, last int) error {
	if last < 0 || last >= replay.Size() {
		last = replay.Size() - 1
	}
	if first < 0 {
		first = 0
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tACTION\tTIME\tSCREEN\tTURN\tPLAYER\tCHALLENGE\tMESSAGE")
	for i := first; i <= last; i++ {
		entry, ok := replay.EntryAt(i)
		if !ok {
			break
		}
		fmt.Fprintln(tw, describe(i, entry))
	}
	return tw.Flush()
}

func describe(i int, entry game.ReplayEntry) string {
	s := entry.State
	action := string(entry.Action)
	if action == "" {
		action = "(start)"
	}
	player := "-"
	if p, ok := s.CurrentPlayer(); ok {
		player = p.Name
	}
	challenge := "-"
	if s.Challenge.Phase != game.ChallengeIdle {
		challenge = fmt.Sprintf("%s %s", s.Challenge.Phase, s.Challenge.Type)
		if s.Challenge.Text != "" {
			challenge += ": " + truncate(s.Challenge.Text, 40)
		}
	}
	message := "-"
	if s.GameMessage != nil {
		message = s.GameMessage.Key
	}
	return strings.Join([]string{
		fmt.Sprint(i),
		action,
		entry.At.Format("15:04:05.000"),
		string(s.Screen),
		string(s.Turn),
		player,
		challenge,
		message,
	}, "\t")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func printState(w io.Writer, replay *game.Replay, i int) error {
	entry, ok := replay.EntryAt(i)
	if !ok {
		return fmt.Errorf("entry %d out of range (replay has %d)", i, replay.Size())
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entry.State)
}
