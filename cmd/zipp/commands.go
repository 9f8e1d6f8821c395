package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/zipp/internal/config"
	"github.com/muurk/zipp/internal/discovery"
	"github.com/muurk/zipp/internal/protocol"
	"github.com/muurk/zipp/internal/ui"
	"github.com/muurk/zipp/internal/zipp"
)

// Command flags
var (
	listPresets bool
	infoJSON    bool
	scanTimeout time.Duration
	scanSave    bool
	watchPoll   time.Duration
)

// actionCommand is a command that sends one fixed request.
type actionCommand struct {
	use   string
	short string
	done  string
	run   func(*zipp.Session) error
}

var actionCommands = []actionCommand{
	{"play", "Resume playback", "Playing", (*zipp.Session).Play},
	{"pause", "Pause playback", "Paused", (*zipp.Session).Pause},
	{"stop", "Stop playback", "Stopped", (*zipp.Session).Stop},
	{"next", "Skip to the next track", "Skipped forward", (*zipp.Session).Next},
	{"prev", "Go back to the previous track", "Skipped back", (*zipp.Session).Previous},
	{"sleep", "Put the speaker to sleep", "Going to sleep", (*zipp.Session).SleepNow},
	{"wake", "Wake the speaker", "Waking up", (*zipp.Session).WakeNow},
}

func init() {
	for _, ac := range actionCommands {
		rootCmd.AddCommand(newActionCmd(ac))
	}

	voicingCmd.Flags().BoolVarP(&listPresets, "list", "l", false, "List available voicings")
	roomCmd.Flags().BoolVarP(&listPresets, "list", "l", false, "List available room settings")
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "Print the snapshot as JSON")
	scanCmd.Flags().DurationVar(&scanTimeout, "scan-timeout", 0, "How long to listen for speakers (default from config)")
	scanCmd.Flags().BoolVar(&scanSave, "save", false, "Remember discovered speakers in the config file")
	watchCmd.Flags().DurationVar(&watchPoll, "interval", ui.DefaultWatchInterval, "Screen refresh interval")

	groupCmd.AddCommand(groupJoinCmd, groupLeaveCmd)

	rootCmd.AddCommand(
		volumeCmd,
		nameCmd,
		voicingCmd,
		roomCmd,
		favoriteCmd,
		timerCmd,
		groupCmd,
		infoCmd,
		watchCmd,
		scanCmd,
		nicknameCmd,
	)
}

func newActionCmd(ac actionCommand) *cobra.Command {
	return &cobra.Command{
		Use:   ac.use,
		Short: ac.short,
		Args:  cobra.NoArgs,
		RunE: withRemote(func(ctx context.Context, r *remote, args []string) error {
			if err := ac.run(r.session); err != nil {
				return err
			}
			printDone(r, ac.done, nil)
			return nil
		}),
	}
}

// printDone prints a success box naming the speaker
func printDone(r *remote, title string, details map[string]string) {
	if details == nil {
		details = make(map[string]string)
	}
	details["Speaker"] = r.session.Host()
	ui.NewPrinter(nil).PrintSuccess(title, details)
}

var volumeCmd = &cobra.Command{
	Use:   "volume [0-100]",
	Short: "Show or set the volume",
	Example: `  # Show the volume
  zipp volume

  # Set the volume on the kitchen speaker
  zipp volume 40 --speaker kitchen`,
	Args: cobra.MaximumNArgs(1),
	RunE: withRemote(func(ctx context.Context, r *remote, args []string) error {
		if len(args) == 0 {
			if err := r.session.FetchVolume(); err != nil {
				return err
			}
			snap, err := r.wait(ctx, func(s zipp.Snapshot) bool { return s.Volume != "" })
			if err != nil {
				return err
			}
			fmt.Println(snap.Volume)
			return nil
		}

		volume, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("volume must be a number: %q", args[0])
		}
		if err := r.session.SetVolume(volume); err != nil {
			return err
		}
		printDone(r, "Volume set", map[string]string{"Volume": args[0]})
		return nil
	}),
}

var nameCmd = &cobra.Command{
	Use:   "name [new name]",
	Short: "Show or change the speaker name",
	Args:  cobra.ArbitraryArgs,
	RunE: withRemote(func(ctx context.Context, r *remote, args []string) error {
		if len(args) == 0 {
			if err := r.session.FetchName(); err != nil {
				return err
			}
			snap, err := r.wait(ctx, func(s zipp.Snapshot) bool { return s.Name != "" })
			if err != nil {
				return err
			}
			fmt.Println(snap.Name)
			return nil
		}

		name := strings.Join(args, " ")
		if err := r.session.SetName(name); err != nil {
			return err
		}
		printDone(r, "Speaker renamed", map[string]string{"Name": name})
		return nil
	}),
}

// presetCommand builds the voicing and room commands, which differ only in
// which list and setter they use.
type presetCommand struct {
	title   string
	fetch   func(*zipp.Session) error
	list    func(zipp.Snapshot) []protocol.Preset
	current func(zipp.Snapshot) string
	set     func(*zipp.Session, string) error
}

func (pc presetCommand) run(ctx context.Context, r *remote, args []string) error {
	if err := pc.fetch(r.session); err != nil {
		return err
	}
	snap, err := r.wait(ctx, func(s zipp.Snapshot) bool { return pc.list(s) != nil })
	if err != nil {
		return err
	}

	if listPresets || len(args) == 0 {
		names := make([]string, 0, len(pc.list(snap)))
		for _, p := range pc.list(snap) {
			names = append(names, p.Name)
		}
		fmt.Println(ui.RenderPresets(pc.title, names, pc.current(snap)))
		return nil
	}

	choice := strings.Join(args, " ")
	if err := pc.set(r.session, choice); err != nil {
		return err
	}
	printDone(r, pc.title+" changed", map[string]string{pc.title: choice})
	return nil
}

var voicing = presetCommand{
	title:   "Voicing",
	fetch:   (*zipp.Session).FetchVoicings,
	list:    func(s zipp.Snapshot) []protocol.Preset { return s.Voicings },
	current: func(s zipp.Snapshot) string { return s.Voicing },
	set:     (*zipp.Session).SetVoicing,
}

var room = presetCommand{
	title:   "Room",
	fetch:   (*zipp.Session).FetchRooms,
	list:    func(s zipp.Snapshot) []protocol.Preset { return s.Rooms },
	current: func(s zipp.Snapshot) string { return s.Room },
	set:     (*zipp.Session).SetRoom,
}

var voicingCmd = &cobra.Command{
	Use:   "voicing [name]",
	Short: "List or select the sound voicing",
	Example: `  zipp voicing --list
  zipp voicing "Easy Listening"`,
	Args: cobra.ArbitraryArgs,
	RunE: withRemote(voicing.run),
}

var roomCmd = &cobra.Command{
	Use:   "room [name]",
	Short: "List or select the room correction setting",
	Args:  cobra.ArbitraryArgs,
	RunE:  withRemote(room.run),
}

var favoriteCmd = &cobra.Command{
	Use:   "favorite <1-5>",
	Short: "Play a favorite channel",
	Args:  cobra.ExactArgs(1),
	RunE: withRemote(func(ctx context.Context, r *remote, args []string) error {
		slot, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("favorite must be a number: %q", args[0])
		}
		if err := r.session.PlayFavorite(slot); err != nil {
			return err
		}
		printDone(r, "Playing favorite", map[string]string{"Slot": args[0]})
		return nil
	}),
}

var timerCmd = &cobra.Command{
	Use:   "timer [duration|cancel]",
	Short: "Show, set or cancel the sleep timer",
	Example: `  zipp timer
  zipp timer 30m
  zipp timer 900
  zipp timer cancel`,
	Args: cobra.MaximumNArgs(1),
	RunE: withRemote(func(ctx context.Context, r *remote, args []string) error {
		if len(args) == 0 {
			if err := r.session.FetchTimer(); err != nil {
				return err
			}
			snap, err := r.wait(ctx, func(s zipp.Snapshot) bool { return s.Timer != nil })
			if err != nil {
				return err
			}
			fmt.Println(snap.Timer)
			return nil
		}

		if args[0] == "cancel" {
			if err := r.session.CancelTimer(); err != nil {
				return err
			}
			printDone(r, "Sleep timer cancelled", nil)
			return nil
		}

		seconds, err := parseTimerArg(args[0])
		if err != nil {
			return err
		}
		if err := r.session.SetTimer(seconds); err != nil {
			return err
		}
		printDone(r, "Sleep timer set", map[string]string{"Sleep in": (time.Duration(seconds) * time.Second).String()})
		return nil
	}),
}

// parseTimerArg accepts plain seconds or a Go duration such as "45m".
func parseTimerArg(arg string) (int, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		return n, nil
	}
	d, err := time.ParseDuration(arg)
	if err != nil {
		return 0, fmt.Errorf("timer must be seconds or a duration like 30m: %q", arg)
	}
	if d%time.Second != 0 {
		return 0, fmt.Errorf("timer must be whole seconds: %q", arg)
	}
	return int(d / time.Second), nil
}

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Join or leave a multi-room group",
}

var groupJoinCmd = &cobra.Command{
	Use:   "join <link id>",
	Short: "Join the group with the given link id",
	Args:  cobra.ExactArgs(1),
	RunE: withRemote(func(ctx context.Context, r *remote, args []string) error {
		if err := r.session.JoinGroup(args[0]); err != nil {
			return err
		}
		printDone(r, "Joined group", map[string]string{"Link": args[0]})
		return nil
	}),
}

var groupLeaveCmd = &cobra.Command{
	Use:   "leave",
	Short: "Leave the current group",
	Args:  cobra.NoArgs,
	RunE: withRemote(func(ctx context.Context, r *remote, args []string) error {
		if err := r.session.LeaveGroup(); err != nil {
			return err
		}
		printDone(r, "Left group", nil)
		return nil
	}),
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show everything the speaker reports",
	Long: `Query the speaker and print its state.

The speaker is asked for every readable value. Whatever has arrived when it
has reported its name and state, or when --timeout passes, is printed.`,
	Args: cobra.NoArgs,
	RunE: withRemote(func(ctx context.Context, r *remote, args []string) error {
		// Replies still arrive if some requests failed
		lifecycleErr := r.session.RefreshLifecycle()
		activeErr := r.session.RefreshActive()
		if lifecycleErr != nil && activeErr != nil {
			return activeErr
		}

		snap, err := r.wait(ctx, func(s zipp.Snapshot) bool {
			return s.Name != "" && s.State != zipp.StateUnknown && s.Volume != ""
		})
		if err != nil && snap.UpdatedAt.IsZero() {
			return err
		}

		if infoJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		}
		ui.NewPrinter(nil).PrintSnapshot(snap)
		return nil
	}),
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show live speaker state until you press q",
	Args:  cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if !ui.IsTerminal() {
			return fmt.Errorf("watch needs a terminal; use 'zipp info' in scripts")
		}
		return nil
	},
	RunE: withRemote(func(ctx context.Context, r *remote, args []string) error {
		if err := r.session.RefreshLifecycle(); err != nil {
			return err
		}
		if err := r.session.RefreshActive(); err != nil {
			return err
		}
		return ui.Watch(ctx, r.session, watchPoll)
	}),
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Find Libratone speakers on the network",
	Long: `Find Libratone speakers using mDNS.

Zipp speakers advertise AirPlay, so this lists AirPlay devices that identify
as Libratone. A speaker that does not show up can still be used by IP address.`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	registry, err := config.LoadRegistry()
	if err != nil {
		return err
	}

	timeout := scanTimeout
	if timeout <= 0 {
		timeout = time.Duration(registry.Preferences.DiscoverTimeout) * time.Second
	}
	if timeout <= 0 {
		timeout = discovery.DefaultScanTimeout
	}

	fmt.Printf("Scanning for speakers (timeout: %s)...\n\n", timeout)

	speakers, err := discovery.Scan(cmd.Context(), timeout)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(speakers) == 0 {
		fmt.Println("No speakers found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Check the speaker is awake and on the same network")
		fmt.Println("  - Try a longer --scan-timeout")
		fmt.Println("  - Use --speaker <ip> if you know the address")
		return nil
	}

	fmt.Printf("Found %d speaker(s):\n\n", len(speakers))
	for i, s := range speakers {
		fmt.Printf("%d. %s\n", i+1, s.Name)
		fmt.Printf("   IP:       %s\n", s.IP)
		if s.Model != "" {
			fmt.Printf("   Model:    %s\n", s.Model)
		}
		if known := registry.GetSpeaker(s.IP); known != nil && known.Nickname != "" {
			fmt.Printf("   Nickname: %s\n", known.Nickname)
		}
		fmt.Println()

		if scanSave {
			registry.UpdateSpeakerSeen(s.IP, s.Name, "")
		}
	}

	if scanSave {
		if err := registry.Save(); err != nil {
			return err
		}
		fmt.Println("Speakers saved to the config file.")
	}
	fmt.Println("Use 'zipp nickname <ip> <name>' to give a speaker a short name")
	return nil
}

var nicknameCmd = &cobra.Command{
	Use:   "nickname <host> <nickname>",
	Short: "Give a speaker a nickname for --speaker",
	Long: `Store a nickname for a speaker in the config file.

With --default the speaker is also used when no --speaker is given.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := config.LoadRegistry()
		if err != nil {
			return err
		}
		registry.SetSpeakerNickname(args[0], args[1])
		if makeDefault, _ := cmd.Flags().GetBool("default"); makeDefault {
			registry.Preferences.DefaultSpeaker = args[1]
		}
		if err := registry.Save(); err != nil {
			return err
		}
		ui.NewPrinter(nil).PrintSuccess("Nickname saved", map[string]string{"Host": args[0], "Nickname": args[1]})
		return nil
	},
}

func init() {
	nicknameCmd.Flags().Bool("default", false, "Also make this the default speaker")
}

// failureTitle names the failed command for the error box
func failureTitle(root *cobra.Command, err error) string {
	if zipp.IsValidationError(err) {
		return "Invalid value"
	}
	cmd, _, findErr := root.Find(os.Args[1:])
	if findErr != nil || cmd == root {
		return "zipp"
	}
	return "zipp " + cmd.Name()
}
