package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/zipp/internal/protocol"
	"github.com/muurk/zipp/internal/zipp"
)

// field is one key/value row. An empty value renders as unset.
type field struct {
	key   string
	value string
}

// SnapshotView renders a speaker snapshot as sectioned key/value rows with
// level bars for volume and battery.
type SnapshotView struct {
	Width int
	bar   progress.Model
}

// NewSnapshotView creates a view sized to the terminal
func NewSnapshotView() *SnapshotView {
	return NewSnapshotViewWidth(GetTerminalWidth())
}

// NewSnapshotViewWidth creates a view with an explicit width
func NewSnapshotViewWidth(width int) *SnapshotView {
	v := &SnapshotView{}
	v.SetWidth(width)
	return v
}

// SetWidth resizes the view and its level bars
func (v *SnapshotView) SetWidth(width int) {
	v.Width = clampWidth(width)
	barWidth := v.Width - 40 // Key column, percentage and padding
	if barWidth < 10 {
		barWidth = 10
	}
	if barWidth > 30 {
		barWidth = 30
	}
	v.bar = progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	v.bar.Width = barWidth
}

// Render returns the full snapshot: header then sections
func (v *SnapshotView) Render(snap zipp.Snapshot) string {
	sections := []string{
		v.renderHeader(snap),
		v.renderSection("Playback", v.playbackFields(snap)),
		v.renderSection("Device", v.deviceFields(snap)),
		v.renderSection("Sound", v.soundFields(snap)),
	}
	if len(snap.Channels) > 0 {
		sections = append(sections, v.renderSection("Favorites", channelFields(snap.Channels)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *SnapshotView) renderHeader(snap zipp.Snapshot) string {
	name := snap.Name
	if name == "" {
		name = "Libratone Zipp"
	}
	title := HeaderTitleStyle.Render(name) + "  " + StateStyle(snap.State.String()).Render(snap.State.String())
	host := snap.Host
	if !snap.UpdatedAt.IsZero() {
		host += "  updated " + snap.UpdatedAt.Format("15:04:05")
	}
	subtitle := HeaderSubtitleStyle.Render(host)
	content := lipgloss.JoinVertical(lipgloss.Left, title, subtitle)
	return HeaderBorderStyle(v.Width).Render(content)
}

func (v *SnapshotView) playbackFields(snap zipp.Snapshot) []field {
	fields := []field{
		{"Power", enumValue(snap.PowerMode.String())},
		{"Status", enumValue(snap.PlayStatus.String())},
	}
	if snap.Player != nil {
		fields = append(fields,
			field{"Title", snap.Player.Title},
			field{"Artist", snap.Player.Subtitle},
			field{"Source", snap.Player.Type},
		)
	}
	timer := ""
	if snap.Timer != nil {
		timer = snap.Timer.String()
	}
	fields = append(fields, field{"Sleep timer", timer})
	return fields
}

func (v *SnapshotView) deviceFields(snap zipp.Snapshot) []field {
	group := ""
	if snap.Group != nil {
		group = snap.Group.Status.String()
		if snap.Group.Role != protocol.GroupRoleNone {
			group += " (" + snap.Group.Role.String() + ")"
		}
	}
	return []field{
		{"Battery", v.level(snap.BatteryLevel)},
		{"Charging", snap.ChargingStatus},
		{"Signal", snap.SignalStrength},
		{"Firmware", snap.Version},
		{"Serial", snap.SerialNumber},
		{"Color", snap.Color},
		{"Group", group},
	}
}

func (v *SnapshotView) soundFields(snap zipp.Snapshot) []field {
	return []field{
		{"Volume", v.level(snap.Volume)},
		{"Mute", snap.MuteStatus},
		{"Voicing", snap.Voicing},
		{"Room", snap.Room},
	}
}

func channelFields(channels []protocol.PlayerInfo) []field {
	fields := make([]field, 0, len(channels))
	for i, ch := range channels {
		fields = append(fields, field{strconv.Itoa(i + 1), ch.Title})
	}
	return fields
}

// level renders a 0..100 reading as a bar with the number, or the raw text
// when it is not a number in range.
func (v *SnapshotView) level(raw string) string {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > 100 {
		return raw
	}
	return fmt.Sprintf("%s %3d", v.bar.ViewAs(float64(n)/100), n)
}

func (v *SnapshotView) renderSection(title string, fields []field) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + SectionTitleStyle.Render(title))
	for _, f := range fields {
		b.WriteString("\n")
		b.WriteString("  " + FieldKeyStyle.Render(f.key) + renderValue(f.value))
	}
	return b.String()
}

func renderValue(value string) string {
	if value == "" {
		return UnsetValueStyle.Render(UnsetMarker)
	}
	return FieldValueStyle.Render(value)
}

// enumValue hides "unknown" so it renders as unset
func enumValue(s string) string {
	if s == "unknown" {
		return ""
	}
	return s
}

// RenderSnapshot renders a snapshot at the terminal width
func RenderSnapshot(snap zipp.Snapshot) string {
	return NewSnapshotView().Render(snap)
}
