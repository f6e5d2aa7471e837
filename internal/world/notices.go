package world

import "time"

// NoticeCap bounds how many notices are retained.
const NoticeCap = 4

// Notice is a short gameplay message for the HUD.
type Notice struct {
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Notices is a bounded log of recent notices, oldest first.
type Notices struct {
	items []Notice
}

// Push appends a notice, evicting the oldest when full.
func (n *Notices) Push(text string, at time.Time) {
	if len(n.items) == NoticeCap {
		copy(n.items, n.items[1:])
		n.items = n.items[:NoticeCap-1]
	}
	n.items = append(n.items, Notice{Text: text, At: at})
}

// Items returns the retained notices. The slice must not be modified.
func (n *Notices) Items() []Notice {
	return n.items
}

// Latest returns the newest notice.
func (n *Notices) Latest() (Notice, bool) {
	if len(n.items) == 0 {
		return Notice{}, false
	}
	return n.items[len(n.items)-1], true
}

// Reset drops every notice.
func (n *Notices) Reset() {
	n.items = n.items[:0]
}

func (n Notices) clone() Notices {
	return Notices{items: append([]Notice(nil), n.items...)}
}
