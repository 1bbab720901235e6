package models

import "time"

const (
	DefaultMaxHistory       = 100
	DefaultMaxSearchHistory = 50
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one conversation entry. Entries are never edited after being appended.
type Message struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type SearchRecord struct {
	Query       string    `json:"query"`
	ResultCount int       `json:"result_count"`
	Timestamp   time.Time `json:"timestamp"`
}

type Settings struct {
	Language      string `json:"language"`
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
}

func DefaultSettings() Settings {
	return Settings{Language: "ja", Theme: "light", Notifications: true}
}

// Session is the per-user conversational and preference state.
type Session struct {
	ID                  string         `json:"id"`
	CreatedAt           time.Time      `json:"created_at"`
	LastAccessed        time.Time      `json:"last_accessed"`
	ConversationHistory []Message      `json:"conversation_history"`
	Preferences         Preferences    `json:"preferences"`
	Favorites           []Product      `json:"favorites"`
	SearchHistory       []SearchRecord `json:"search_history"`
	Settings            Settings       `json:"settings"`
}

func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:                  id,
		CreatedAt:           now,
		LastAccessed:        now,
		ConversationHistory: []Message{},
		Favorites:           []Product{},
		SearchHistory:       []SearchRecord{},
		Settings:            DefaultSettings(),
	}
}

// IsExpired reports whether the session has been idle longer than ttl.
func (s *Session) IsExpired(now time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	return now.Sub(s.LastAccessed) > ttl
}

func (s *Session) Touch(now time.Time) {
	s.LastAccessed = now
}

// AppendMessage adds a message and keeps only the last limit entries.
func (s *Session) AppendMessage(msg Message, limit int) {
	s.ConversationHistory = append(s.ConversationHistory, msg)
	if limit > 0 && len(s.ConversationHistory) > limit {
		s.ConversationHistory = append([]Message(nil), s.ConversationHistory[len(s.ConversationHistory)-limit:]...)
	}
}

// AppendSearch adds a search record and keeps only the last limit entries.
func (s *Session) AppendSearch(rec SearchRecord, limit int) {
	s.SearchHistory = append(s.SearchHistory, rec)
	if limit > 0 && len(s.SearchHistory) > limit {
		s.SearchHistory = append([]SearchRecord(nil), s.SearchHistory[len(s.SearchHistory)-limit:]...)
	}
}

// AddFavorite stores p unless a favorite with the same id exists. It reports whether p was added.
func (s *Session) AddFavorite(p Product) bool {
	for _, f := range s.Favorites {
		if f.ID == p.ID {
			return false
		}
	}
	s.Favorites = append(s.Favorites, p.Clone())
	return true
}

// RemoveFavorite reports whether a favorite with id was present.
func (s *Session) RemoveFavorite(id string) bool {
	for i, f := range s.Favorites {
		if f.ID == id {
			s.Favorites = append(s.Favorites[:i:i], s.Favorites[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Session) UserMessageCount() int {
	n := 0
	for _, m := range s.ConversationHistory {
		if m.Role == RoleUser {
			n++
		}
	}
	return n
}

// Clone returns a deep copy so callers can mutate it without touching stored state.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.ConversationHistory = append([]Message{}, s.ConversationHistory...)
	c.SearchHistory = append([]SearchRecord{}, s.SearchHistory...)
	c.Preferences = s.Preferences.Clone()
	c.Favorites = make([]Product, len(s.Favorites))
	for i, f := range s.Favorites {
		c.Favorites[i] = f.Clone()
	}
	return &c
}
