package storage

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

const (
	titleMaxRunes      = 30
	titleTruncateRunes = 28
)

// Message represents a chat message. Messages are appended only.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is a locally tracked chat thread, optionally bound to a backend session.
type Conversation struct {
	ID        string
	Title     string
	SessionID string
	Messages  []Message

	// HistoryRequested is set once a history fetch has been issued for SessionID.
	HistoryRequested bool

	historyLoaded bool
	seq           int
}

// FirstUserMessage returns the content of the first user message, if any.
func (c *Conversation) FirstUserMessage() (string, bool) {
	for _, msg := range c.Messages {
		if msg.Role == RoleUser {
			return msg.Content, true
		}
	}
	return "", false
}

// LastAIMessage returns the content of the most recent ai message, if any.
func (c *Conversation) LastAIMessage() (string, bool) {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleAI {
			return c.Messages[i].Content, true
		}
	}
	return "", false
}

type ChangeKind int

const (
	ChangeCreated ChangeKind = iota
	ChangeActivated
	ChangeAppended
	ChangeUpdated
	ChangeReplaced
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeCreated:
		return "created"
	case ChangeActivated:
		return "activated"
	case ChangeAppended:
		return "appended"
	case ChangeUpdated:
		return "updated"
	case ChangeReplaced:
		return "replaced"
	default:
		return fmt.Sprintf("change(%d)", int(k))
	}
}

// Change describes a single store mutation.
type Change struct {
	Kind           ChangeKind
	ConversationID string
	// Silent is set on ChangeCreated when no status notification should be shown.
	Silent bool
}

// Store is the in-memory ordered collection of conversations (newest first).
//
// Store is not safe for concurrent use; every mutation happens on the UI goroutine.
type Store struct {
	conversations []*Conversation
	activeID      string
	counter       int
	listeners     []func(Change)
}

func NewStore() *Store {
	return &Store{}
}

// Subscribe registers fn to run after every mutation.
func (s *Store) Subscribe(fn func(Change)) {
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify(change Change) {
	for _, fn := range s.listeners {
		fn(change)
	}
}

func (s *Store) nextSeq() int {
	s.counter++
	return s.counter
}

func placeholderTitle(seq int) string {
	return fmt.Sprintf("New conversation %d", seq)
}

// Create inserts a fresh conversation at the front and makes it active.
func (s *Store) Create(silent bool) *Conversation {
	seq := s.nextSeq()
	conv := &Conversation{
		ID:    uuid.New().String(),
		Title: placeholderTitle(seq),
		seq:   seq,
	}

	s.conversations = append([]*Conversation{conv}, s.conversations...)
	s.activeID = conv.ID

	s.notify(Change{Kind: ChangeCreated, ConversationID: conv.ID, Silent: silent})
	return conv
}

// EnsureActive returns the active conversation, creating one silently if none exists.
func (s *Store) EnsureActive() *Conversation {
	if conv := s.Active(); conv != nil {
		return conv
	}
	return s.Create(true)
}

// SetActive marks id active. ok is false (and nothing changes) when id is unknown.
// needsHistory reports whether the caller must fetch history for the conversation;
// it is true at most once per conversation.
func (s *Store) SetActive(id string) (conv *Conversation, needsHistory bool, ok bool) {
	conv = s.Get(id)
	if conv == nil {
		return nil, false, false
	}

	s.activeID = id
	if conv.SessionID != "" && len(conv.Messages) == 0 && !conv.HistoryRequested {
		conv.HistoryRequested = true
		needsHistory = true
	}

	s.notify(Change{Kind: ChangeActivated, ConversationID: id})
	return conv, needsHistory, true
}

// RefreshTitle derives the title from the first user message, or restores the
// placeholder when there is none.
func (s *Store) RefreshTitle(conv *Conversation) {
	if conv == nil {
		return
	}

	first, ok := conv.FirstUserMessage()
	if !ok {
		conv.Title = placeholderTitle(conv.seq)
	} else {
		conv.Title = summarizeTitle(first)
	}

	s.notify(Change{Kind: ChangeUpdated, ConversationID: conv.ID})
}

func summarizeTitle(text string) string {
	if utf8.RuneCountInString(text) <= titleMaxRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:titleTruncateRunes]) + "..."
}

func (s *Store) Get(id string) *Conversation {
	for _, conv := range s.conversations {
		if conv.ID == id {
			return conv
		}
	}
	return nil
}

// Active returns the active conversation or nil.
func (s *Store) Active() *Conversation {
	if s.activeID == "" {
		return nil
	}
	return s.Get(s.activeID)
}

func (s *Store) ActiveID() string {
	return s.activeID
}

// List returns the conversations in display order. The slice must not be modified.
func (s *Store) List() []*Conversation {
	return s.conversations
}

func (s *Store) Len() int {
	return len(s.conversations)
}

// Append adds msg to the conversation. Unknown ids are ignored.
func (s *Store) Append(id string, msg Message) bool {
	conv := s.Get(id)
	if conv == nil {
		return false
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	conv.Messages = append(conv.Messages, msg)

	s.notify(Change{Kind: ChangeAppended, ConversationID: id})
	return true
}

// SetSessionID binds the conversation to a backend session. An existing binding is
// never replaced or cleared.
func (s *Store) SetSessionID(id, sessionID string) bool {
	conv := s.Get(id)
	if conv == nil || conv.SessionID != "" || sessionID == "" {
		return false
	}
	conv.SessionID = sessionID

	s.notify(Change{Kind: ChangeUpdated, ConversationID: id})
	return true
}

// Replace swaps the whole list for one empty conversation per backend session id.
// Local conversations that already hold messages but have no session yet stay at
// the front, since the backend cannot list them. The active conversation survives
// only if it is still present.
func (s *Store) Replace(sessionIDs []string) {
	previous := make(map[string]*Conversation, len(s.conversations))
	conversations := make([]*Conversation, 0, len(sessionIDs))
	seen := make(map[string]bool, len(sessionIDs))

	for _, conv := range s.conversations {
		previous[conv.ID] = conv
		if conv.SessionID == "" && len(conv.Messages) > 0 {
			conversations = append(conversations, conv)
			seen[conv.ID] = true
		}
	}

	for _, sid := range sessionIDs {
		if sid == "" || seen[sid] {
			continue
		}
		seen[sid] = true

		// Keep already-loaded state for sessions we knew about.
		if conv, ok := previous[sid]; ok && conv.SessionID == sid {
			conversations = append(conversations, conv)
			continue
		}

		seq := s.nextSeq()
		conversations = append(conversations, &Conversation{
			ID:        sid,
			Title:     placeholderTitle(seq),
			SessionID: sid,
			seq:       seq,
		})
	}

	s.conversations = conversations
	if !seen[s.activeID] {
		s.activeID = ""
	}

	s.notify(Change{Kind: ChangeReplaced})
}

// LoadHistory installs fetched history. Messages appended while the fetch was in
// flight are kept after it.
func (s *Store) LoadHistory(id string, history []Message) bool {
	conv := s.Get(id)
	if conv == nil {
		return false
	}

	merged := make([]Message, 0, len(history)+len(conv.Messages))
	merged = append(merged, history...)
	merged = append(merged, conv.Messages...)
	conv.Messages = merged
	conv.historyLoaded = true

	s.RefreshTitle(conv)
	return true
}

// MarkHistoryFailed allows a later SetActive to retry the history fetch.
func (s *Store) MarkHistoryFailed(id string) {
	if conv := s.Get(id); conv != nil {
		conv.HistoryRequested = false
	}
}

// HistoryPending reports whether a history fetch is outstanding for the conversation.
func (c *Conversation) HistoryPending() bool {
	return c.HistoryRequested && !c.historyLoaded
}
