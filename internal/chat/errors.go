package chat

import "errors"

var (
	ErrEmptyMessage   = errors.New("message text is empty")
	ErrNotParticipant = errors.New("sender is not a participant of the conversation")
	ErrSameUser       = errors.New("a conversation needs two distinct participants")
)
