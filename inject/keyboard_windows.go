//go:build windows

package inject

import (
	"context"
	"fmt"
	"time"
	"unicode/utf16"
	"unsafe"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"github.com/lxn/win"
)

// Keyboard synthesizes key presses with SendInput: Enter to open the chat
// line, the text as Unicode keystrokes, Enter to send. The target window
// must have focus.
type Keyboard struct {
	KeyDelay time.Duration
	log      *logger.Logger
}

// NewKeyboard returns a Keyboard injector pausing keyDelay between key actions
func NewKeyboard(keyDelay time.Duration) (*Keyboard, error) {
	return &Keyboard{
		KeyDelay: keyDelay,
		log:      logger.NewLogger(coloransi.Color(coloransi.Red, coloransi.ColorPurple, "keyboard")),
	}, nil
}

func (k *Keyboard) InjectAndSubmit(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	k.log.Debugln("Typing", len(text), "bytes")

	if err := k.press(win.VK_RETURN); err != nil {
		return err
	}
	time.Sleep(k.KeyDelay)

	for _, unit := range utf16.Encode([]rune(text)) {
		inputs := []win.KEYBD_INPUT{
			unicodeKey(unit, 0),
			unicodeKey(unit, win.KEYEVENTF_KEYUP),
		}
		if err := send(inputs); err != nil {
			return err
		}
	}
	time.Sleep(k.KeyDelay)

	return k.press(win.VK_RETURN)
}

func (k *Keyboard) press(vk uint16) error {
	return send([]win.KEYBD_INPUT{
		{Type: win.INPUT_KEYBOARD, Ki: win.KEYBDINPUT{WVk: vk}},
		{Type: win.INPUT_KEYBOARD, Ki: win.KEYBDINPUT{WVk: vk, DwFlags: win.KEYEVENTF_KEYUP}},
	})
}

func unicodeKey(unit uint16, flags uint32) win.KEYBD_INPUT {
	return win.KEYBD_INPUT{
		Type: win.INPUT_KEYBOARD,
		Ki: win.KEYBDINPUT{
			WScan:   unit,
			DwFlags: win.KEYEVENTF_UNICODE | flags,
		},
	}
}

func send(inputs []win.KEYBD_INPUT) error {
	n := win.SendInput(uint32(len(inputs)), unsafe.Pointer(&inputs[0]), int32(unsafe.Sizeof(inputs[0])))
	if int(n) != len(inputs) {
		return fmt.Errorf("SendInput accepted %d of %d events", n, len(inputs))
	}
	return nil
}
