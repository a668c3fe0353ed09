package relay

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	ControlBlock   = "block"
	ControlUnblock = "unblock"
)

// Control - разобранные данные inline-кнопки "block:<id>" / "unblock:<id>".
type Control struct {
	Action string
	UserID int64
}

func ControlData(action string, userID int64) string {
	return action + ":" + strconv.FormatInt(userID, 10)
}

func ParseControl(data string) (Control, error) {
	action, rawID, ok := strings.Cut(data, ":")
	if !ok {
		return Control{}, fmt.Errorf("%w: %q", ErrBadControl, data)
	}
	if action != ControlBlock && action != ControlUnblock {
		return Control{}, fmt.Errorf("%w: unknown action %q", ErrBadControl, action)
	}

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return Control{}, fmt.Errorf("%w: %v", ErrBadControl, err)
	}
	return Control{Action: action, UserID: id}, nil
}
