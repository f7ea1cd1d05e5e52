// Package options contains the program options.
package options

// Operations supported by the program.
const (
	Decode     = "decode"
	Encode     = "encode"
	Encrypt    = "encrypt"
	Decrypt    = "decrypt"
	Scramble   = "scramble"
	Unscramble = "unscramble"
	Verify     = "verify"
)

// Operations lists all operation names.
var Operations = []string{Decode, Encode, Encrypt, Decrypt, Scramble, Unscramble, Verify}

// Unset marks a preference flag that was not passed.
const Unset = -1

// Parameters contains file path options.
type Parameters struct {
	Input   string `flag:"i" usage:"input ROM file"`
	Output  string `flag:"o" usage:"output ROM file (default: derived from input and operation)"`
	Batch   string `flag:"batch" usage:"batch process files matching pattern (e.g. *.bin)"`
	Extract string `flag:"x" usage:"directory to extract embedded files to"`
	List    string `flag:"l" usage:"text file to write the cheat list to"`
}

// Flags contains behavior options.
type Flags struct {
	Operation  string `flag:"op" usage:"operation: decode, encode, encrypt, decrypt, scramble, unscramble, verify" default:"decode"`
	Format     string `flag:"f" usage:"force input format (default: auto-detect)"`
	StrictKeys bool   `flag:"strict" usage:"fail on key codes that do not match the firmware"`
	Verify     bool   `flag:"verify" usage:"verify the written image by parsing it again"`
	Debug      bool   `flag:"debug" usage:"enable debug logging"`
	Quiet      bool   `flag:"q" usage:"quiet mode"`
}

// PreferenceFlags contains the edits applied by the encode operation.
type PreferenceFlags struct {
	Sound             int    `flag:"sound" usage:"menu sound setting"`
	BackgroundPattern int    `flag:"bgpattern" usage:"menu background pattern"`
	BackgroundColor   int    `flag:"bgcolor" usage:"menu background color"`
	MenuScroll        int    `flag:"menuscroll" usage:"menu scroll setting"`
	KeyCodeScroll     int    `flag:"keyscroll" usage:"key code list scroll setting"`
	SelectGame        int    `flag:"game" usage:"index of the game to select"`
	ActiveKeyCode     int    `flag:"key" usage:"index of the key code to activate"`
	AddKeyCode        string `flag:"addkey" usage:"name of a key code to add"`
	KeyCodeCIC        string `flag:"cic" usage:"boot chip of the added key code (6101, 6102, 6103, 6105, 6106)" default:"6102"`
}

// Program options of the tool.
type Program struct {
	Parameters
	Flags
	PreferenceFlags
}

// HasEdits returns whether any preference or key code edit was requested.
func (p PreferenceFlags) HasEdits() bool {
	for _, v := range []int{p.Sound, p.BackgroundPattern, p.BackgroundColor,
		p.MenuScroll, p.KeyCodeScroll, p.SelectGame, p.ActiveKeyCode} {
		if v != Unset {
			return true
		}
	}
	return p.AddKeyCode != ""
}
