package settings

import (
	"context"
	"errors"
	"fmt"
	"math"
)

var ErrInvalidSettings = errors.New("invalid settings")
var ErrInvalidSession = errors.New("invalid session identifier")

// Settings are the presentation preferences of one session: where the
// background image sits, its zoom and how the result panel is drawn over it.
type Settings struct {
	PositionX int     `json:"pos_x"`
	PositionY int     `json:"pos_y"`
	Zoom      int     `json:"zoom"`
	Opacity   float64 `json:"opacity"`
	Blur      bool    `json:"blur"`
}

func Default() Settings {
	return Settings{
		PositionX: 50,
		PositionY: 50,
		Zoom:      100,
		Opacity:   0.9,
		Blur:      true,
	}
}

func (s Settings) Validate() error {
	if s.PositionX < 0 || s.PositionX > 100 {
		return fmt.Errorf("%w: pos_x must be between 0 and 100", ErrInvalidSettings)
	}
	if s.PositionY < 0 || s.PositionY > 100 {
		return fmt.Errorf("%w: pos_y must be between 0 and 100", ErrInvalidSettings)
	}
	if s.Zoom < 50 || s.Zoom > 300 || s.Zoom%10 != 0 {
		return fmt.Errorf("%w: zoom must be between 50 and 300 in steps of 10", ErrInvalidSettings)
	}
	if math.IsNaN(s.Opacity) || s.Opacity < 0 || s.Opacity > 1 {
		return fmt.Errorf("%w: opacity must be between 0 and 1", ErrInvalidSettings)
	}

	return nil
}

// Store keeps settings per session. Loading a session that has nothing saved,
// or whose saved value can no longer be read, gives the defaults.
type Store interface {
	Load(ctx context.Context, session string) (Settings, error)
	Save(ctx context.Context, session string, settings Settings) error
	Reset(ctx context.Context, session string) error
}

func validSession(session string) error {
	if session == "" || len(session) > 128 {
		return ErrInvalidSession
	}

	return nil
}
