package model

import "fmt"

type OptionKey string

const (
	OptionDelayTyping      OptionKey = "delay_typing"
	OptionMarkSeenPrevious OptionKey = "mark_seen_previous"
	OptionViewProfile      OptionKey = "view_profile"
	OptionViewStories      OptionKey = "view_stories"
	OptionSafeMode         OptionKey = "safe_mode"
	// OptionFileMode only switches the send endpoint locally, the server never sees it.
	OptionFileMode OptionKey = "file_mode"
)

// ServerOptionKeys lists the server-backed options in send URL query order.
var ServerOptionKeys = []OptionKey{
	OptionDelayTyping,
	OptionMarkSeenPrevious,
	OptionViewProfile,
	OptionViewStories,
	OptionSafeMode,
}

var queryFlags = map[OptionKey]string{
	OptionDelayTyping:      "typing",
	OptionMarkSeenPrevious: "seen",
	OptionViewProfile:      "profile",
	OptionViewStories:      "stories",
	OptionSafeMode:         "safe",
}

var aliases = map[string]OptionKey{
	"typing":  OptionDelayTyping,
	"seen":    OptionMarkSeenPrevious,
	"profile": OptionViewProfile,
	"stories": OptionViewStories,
	"safe":    OptionSafeMode,
	"file":    OptionFileMode,
}

// ParseOptionKey accepts either the wire name or the short query flag name.
func ParseOptionKey(s string) (OptionKey, error) {
	if k, ok := aliases[s]; ok {
		return k, nil
	}

	k := OptionKey(s)
	if _, ok := queryFlags[k]; ok || k == OptionFileMode {
		return k, nil
	}

	return "", fmt.Errorf("unknown option %q", s)
}

// QueryFlag returns the send URL query parameter name, empty for local-only options.
func (k OptionKey) QueryFlag() string {
	return queryFlags[k]
}

// ServerBacked reports whether the option is persisted by the server.
func (k OptionKey) ServerBacked() bool {
	_, ok := queryFlags[k]
	return ok
}

type Options struct {
	DelayTyping      bool
	MarkSeenPrevious bool
	ViewProfile      bool
	ViewStories      bool
	SafeMode         bool
	FileMode         bool
}

func (o Options) Get(k OptionKey) bool {
	switch k {
	case OptionDelayTyping:
		return o.DelayTyping
	case OptionMarkSeenPrevious:
		return o.MarkSeenPrevious
	case OptionViewProfile:
		return o.ViewProfile
	case OptionViewStories:
		return o.ViewStories
	case OptionSafeMode:
		return o.SafeMode
	case OptionFileMode:
		return o.FileMode
	}

	return false
}

func (o *Options) Set(k OptionKey, v bool) {
	switch k {
	case OptionDelayTyping:
		o.DelayTyping = v
	case OptionMarkSeenPrevious:
		o.MarkSeenPrevious = v
	case OptionViewProfile:
		o.ViewProfile = v
	case OptionViewStories:
		o.ViewStories = v
	case OptionSafeMode:
		o.SafeMode = v
	case OptionFileMode:
		o.FileMode = v
	}
}
