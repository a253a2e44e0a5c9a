package manifest

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// DefaultMarker identifies drags that started on our own app icon
const DefaultMarker = "MY_MAC_INSTALLER_DROP"

// Manifest describes what an installer bundle contains and how
// the window presents it. It's read from an `installer.toml`
// shipped next to the payload.
type Manifest struct {
	Title   string
	Payload string
	Icon    string
	Marker  string

	// Destination overrides the default <home>/Applications folder
	Destination string

	// EntryPauseMS is how long to wait after each extracted entry,
	// so that the progress dialog repaints smoothly
	EntryPauseMS int `mapstructure:"entry_pause_ms"`
}

// Default returns the manifest used when the bundle doesn't ship one
func Default() *Manifest {
	return &Manifest{
		Title:        "Mac-style installer",
		Payload:      "app.zip",
		Icon:         "app.png",
		Marker:       DefaultMarker,
		EntryPauseMS: 20,
	}
}

// EntryPause returns EntryPauseMS as a duration
func (m *Manifest) EntryPause() time.Duration {
	if m.EntryPauseMS <= 0 {
		return 0
	}
	return time.Duration(m.EntryPauseMS) * time.Millisecond
}

// Read parses the manifest at path. Returns the default manifest if
// there's no file there. Returns an error if there is a file but it
// can't be read: invalid TOML, unknown keys or wrong value types.
func Read(path string) (*Manifest, error) {
	m := Default()
	if path == "" {
		return m, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, errors.Wrap(err, "opening installer manifest")
	}
	defer f.Close()

	intermediate := make(map[string]interface{})
	_, err = toml.NewDecoder(f).Decode(&intermediate)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      m,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	err = decoder.Decode(intermediate)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}

	err = m.validate()
	if err != nil {
		return nil, errors.Wrapf(err, "validating %s", path)
	}

	return m, nil
}

func (m *Manifest) validate() error {
	if m.Payload == "" {
		return errors.New("payload cannot be empty")
	}
	if m.Marker == "" {
		return errors.New("marker cannot be empty")
	}
	if m.EntryPauseMS < 0 {
		return errors.New("entry_pause_ms cannot be negative")
	}
	return nil
}
