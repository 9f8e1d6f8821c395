package protocol

import "fmt"

// Opcode is a numeric LUCI command identifier.
type Opcode uint16

// Opcodes
// Values were confirmed against a Zipp 1.
const (
	OpNone             Opcode = 0    // Placeholder, ignored
	OpRegisterListener Opcode = 3    // "<local-ip>,<notify-port>"
	OpVersion          Opcode = 5    // Only command answered while asleep
	OpTimer            Opcode = 15   // Sleep timer
	OpPowerMode        Opcode = 16   // Awake / sleeping
	OpPlayControl      Opcode = 40   // PLAY, PAUSE, STOP, NEXT, PREV
	OpPlayStatus       Opcode = 51   // "0" play, "1" stop, "2" pause
	OpMuteStatus       Opcode = 63   //
	OpVolume           Opcode = 64   // 0x0040
	OpName             Opcode = 90   // Friendly name
	OpBatteryLevel     Opcode = 256  // Answered only after OpBatteryPrime
	OpBatteryPrime     Opcode = 257  // First phase of the battery query
	OpSignalStrength   Opcode = 261  //
	OpSerialNumber     Opcode = 262  //
	OpChannelList      Opcode = 274  // JSON array of favorite channels
	OpPlayer           Opcode = 277  // JSON player descriptor
	OpVoicing          Opcode = 518  // Current voicing id
	OpRoom             Opcode = 519  // Current room setting id
	OpVoicingList      Opcode = 524  // fetchAllVoicing
	OpRoomList         Opcode = 525  //
	OpColor            Opcode = 560  //
	OpGroup            Opcode = 1024 // Notification only
	OpGroupJoin        Opcode = 1025 //
	OpGroupLeave       Opcode = 1026 //
	OpChargingStatus   Opcode = 1284 // 0x0504, doubles as the wake trigger
)

// PayloadKind describes how an opcode's payload is encoded.
type PayloadKind int

const (
	PayloadNone  PayloadKind = iota // No payload
	PayloadText                     // ASCII/UTF-8 scalar
	PayloadEnum                     // One of a fixed set of short byte strings
	PayloadJSON                     // JSON object or array
	PayloadTimer                    // Sentinel byte + little-endian seconds
)

// Capability groups the opcodes used for one device attribute.
// A zero opcode means the direction is not supported.
type Capability struct {
	Name    string
	Get     Opcode
	Set     Opcode
	GetAll  Opcode
	Payload PayloadKind
}

// CanGet reports whether the capability can be queried.
func (c Capability) CanGet() bool { return c.Get != OpNone }

// CanSet reports whether the capability can be written.
func (c Capability) CanSet() bool { return c.Set != OpNone }

// Capabilities
var (
	CapVersion        = Capability{Name: "version", Get: OpVersion, Payload: PayloadText}
	CapTimer          = Capability{Name: "timer", Get: OpTimer, Set: OpTimer, Payload: PayloadTimer}
	CapPowerMode      = Capability{Name: "power_mode", Get: OpPowerMode, Set: OpPowerMode, Payload: PayloadEnum}
	CapPlayControl    = Capability{Name: "play_control", Set: OpPlayControl, Payload: PayloadText}
	CapPlayStatus     = Capability{Name: "play_status", Get: OpPlayStatus, Payload: PayloadEnum}
	CapMuteStatus     = Capability{Name: "mute_status", Get: OpMuteStatus, Payload: PayloadText}
	CapVolume         = Capability{Name: "volume", Get: OpVolume, Set: OpVolume, Payload: PayloadText}
	CapName           = Capability{Name: "name", Get: OpName, Set: OpName, Payload: PayloadText}
	CapBatteryLevel   = Capability{Name: "battery_level", Get: OpBatteryLevel, Payload: PayloadText}
	CapSignalStrength = Capability{Name: "signal_strength", Get: OpSignalStrength, Payload: PayloadText}
	CapSerialNumber   = Capability{Name: "serial_number", Get: OpSerialNumber, Payload: PayloadText}
	CapChannelList    = Capability{Name: "channel_list", Get: OpChannelList, Payload: PayloadJSON}
	CapPlayer         = Capability{Name: "player", Get: OpPlayer, Set: OpPlayer, Payload: PayloadJSON}
	CapVoicing        = Capability{Name: "voicing", Get: OpVoicing, Set: OpVoicing, GetAll: OpVoicingList, Payload: PayloadText}
	CapRoom           = Capability{Name: "room", Get: OpRoom, Set: OpRoom, GetAll: OpRoomList, Payload: PayloadText}
	CapColor          = Capability{Name: "color", Get: OpColor, Set: OpColor, Payload: PayloadText}
	CapGroup          = Capability{Name: "group", Set: OpGroupJoin, Payload: PayloadText}
	CapChargingStatus = Capability{Name: "charging_status", Get: OpChargingStatus, Payload: PayloadText}
)

var capabilities = []Capability{
	CapVersion, CapTimer, CapPowerMode, CapPlayControl, CapPlayStatus, CapMuteStatus,
	CapVolume, CapName, CapBatteryLevel, CapSignalStrength, CapSerialNumber,
	CapChannelList, CapPlayer, CapVoicing, CapRoom, CapColor, CapGroup, CapChargingStatus,
}

// Lookup returns the capability an opcode belongs to, matching get, set
// or get-all opcodes.
func Lookup(op Opcode) (Capability, bool) {
	if op == OpNone {
		return Capability{}, false
	}
	for _, c := range capabilities {
		if c.Get == op || c.Set == op || c.GetAll == op {
			return c, true
		}
	}
	return Capability{}, false
}

var opcodeNames = map[Opcode]string{
	OpNone:             "None",
	OpRegisterListener: "RegisterListener",
	OpVersion:          "Version",
	OpTimer:            "Timer",
	OpPowerMode:        "PowerMode",
	OpPlayControl:      "PlayControl",
	OpPlayStatus:       "PlayStatus",
	OpMuteStatus:       "MuteStatus",
	OpVolume:           "Volume",
	OpName:             "Name",
	OpBatteryLevel:     "BatteryLevel",
	OpBatteryPrime:     "BatteryPrime",
	OpSignalStrength:   "SignalStrength",
	OpSerialNumber:     "SerialNumber",
	OpChannelList:      "ChannelList",
	OpPlayer:           "Player",
	OpVoicing:          "Voicing",
	OpRoom:             "Room",
	OpVoicingList:      "VoicingList",
	OpRoomList:         "RoomList",
	OpColor:            "Color",
	OpGroup:            "Group",
	OpGroupJoin:        "GroupJoin",
	OpGroupLeave:       "GroupLeave",
	OpChargingStatus:   "ChargingStatus",
}

// String returns a human-readable opcode name
func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return fmt.Sprintf("%s(%d)", name, uint16(o))
	}
	return fmt.Sprintf("Unknown(%d)", uint16(o))
}

// Known reports whether the opcode appears in the command table.
func (o Opcode) Known() bool {
	_, ok := opcodeNames[o]
	return ok
}

// Play control payloads
const (
	PlayControlPlay  = "PLAY"
	PlayControlPause = "PAUSE"
	PlayControlStop  = "STOP"
	PlayControlNext  = "NEXT"
	PlayControlPrev  = "PREV"
)

// Play status notification payloads
const (
	PlayStatusPlaying = "0"
	PlayStatusStopped = "1"
	PlayStatusPaused  = "2"
)

// Power mode notification payloads
const (
	PowerModeAwake    = "0"
	PowerModeSleeping = "20"
)

// Timer set payloads. Durations are sent as decimal seconds.
const (
	TimerSleepNow = "0"
	TimerWakeNow  = "20"
	TimerCancel   = "255"
	TimerMaxSecs  = 0xFFFF
)

// IsTimerCommand reports whether a timer set payload is one of the fixed
// commands rather than a duration.
func IsTimerCommand(payload string) bool {
	switch payload {
	case TimerSleepNow, TimerWakeNow, TimerCancel:
		return true
	}
	return false
}

// Timer notification sentinel bytes
const (
	TimerSentinelNone   byte = 255 // No timer running
	TimerSentinelActive byte = 50  // Followed by little-endian uint16 seconds
)

// Group notification keywords
const (
	GroupUngroup = "UNGROUP"
	GroupMaster  = "MASTER"
	GroupSlave   = "SLAVE"
	GroupLinkTag = "LINK"
)

// Preset is a static voicing/room definition.
type Preset struct {
	ID          string
	Name        string
	Description string
}

// VoicingPresets are the voicings a Zipp 1 ships with.
// Later models expose more, so the device enumeration always takes precedence.
var VoicingPresets = []Preset{
	{ID: "V100", Name: "Neutral", Description: "Basic neutral setting"},
	{ID: "V101", Name: "Easy Listening", Description: "Easy and smooth leaned back sound"},
	{ID: "V102", Name: "Soft & Comfortable", Description: "Soft midrange for compressed recordings"},
	{ID: "V103", Name: "Rock The House", Description: "Extra drum kick - smooth midrange"},
	{ID: "V104", Name: "Jazz Club", Description: "Open acoustic sound, focus on voices"},
	{ID: "V105", Name: "Movie Mode", Description: "Extra action and movie re-equalization"},
	{ID: "V106", Name: "Live Concert", Description: "Where the music is loud and dynamic"},
	{ID: "V107", Name: "Classical", Description: "Enjoy grand pianos when they are best"},
	{ID: "V108", Name: "Speech", Description: "For TV programs with subtle voices"},
}

// Favorites maps favorite slots to the player descriptor the app sends (captured).
var Favorites = map[int]string{
	1: `{"isFromChannel":false,"play_identity":"1","play_subtitle":"1","play_title":"channel","play_type":"channel","token":""}`,
	2: `{"isFromChannel":false,"play_identity":"2","play_subtitle":"2","play_title":"channel","play_type":"channel","token":""}`,
	3: `{"isFromChannel":false,"play_identity":"2","play_subtitle":"3","play_title":"channel","play_type":"channel","token":""}`,
	4: `{"isFromChannel":false,"play_identity":"2","play_subtitle":"4","play_title":"channel","play_type":"channel","token":""}`,
	5: `{"isFromChannel":false,"play_identity":"2","play_subtitle":"5","play_title":"channel","play_type":"channel","token":""}`,
}

// Favorite slot bounds
const (
	FavoriteMin = 1
	FavoriteMax = 5
)

// ActiveQueries are the opcodes whose values change during normal operation.
// OpBatteryLevel is absent: battery needs the two-phase query.
var ActiveQueries = []Opcode{
	OpPowerMode,
	OpVolume,
	OpVoicing,
	OpRoom,
	OpPlayer,
	OpSignalStrength,
	OpMuteStatus,
	OpTimer,
	OpPlayStatus,
}

// LifecycleQueries are the opcodes whose values are fixed once resolved.
var LifecycleQueries = []Opcode{
	OpPowerMode,
	OpVersion,
	OpName,
	OpRoomList,
	OpVoicingList,
	OpColor,
	OpSerialNumber,
	OpChannelList,
}
