package store

// KnowledgeChunk represents one retrievable fragment of the profile corpus.
// The embedding is owned by the vector store; the similarity score is
// computed per-query and lives on ScoredChunk, never here.
type KnowledgeChunk struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Section    string    `json:"section"`
	Content    string    `json:"content"`
	Embedding  []float32 `json:"-"`
}

// ScoredChunk pairs a chunk with its per-query cosine similarity.
type ScoredChunk struct {
	Chunk KnowledgeChunk `json:"chunk"`
	Score float64        `json:"score"`
}

// SessionMemory is the only state that survives past a turn.
// Flags are monotonic: once set true they are never cleared within a session.
type SessionMemory struct {
	ID           string            `json:"id"` // session id
	Role         string            `json:"role"`
	TurnCount    int               `json:"turn_count"`
	Topics       []string          `json:"topics"`
	Entities     map[string]string `json:"entities"` // company, position, timeline
	HiringSignal int               `json:"hiring_signal"`
	ContactEmail string            `json:"contact_email"`

	// Monotonic flags (write-once per session)
	ResumeSent    bool `json:"resume_sent"`
	ResumeOffered bool `json:"resume_offered"`
	OfferSent     bool `json:"offer_sent"`
	OwnerAlerted  bool `json:"owner_alerted"`
}

// Flag names used by the compare-and-set session store.
const (
	FlagResumeSent    = "resume_sent"
	FlagResumeOffered = "resume_offered"
	FlagOfferSent     = "offer_sent"
	FlagOwnerAlerted  = "owner_alerted"
)

// NewSessionMemory creates an empty memory for a fresh session.
func NewSessionMemory(sessionID, role string) *SessionMemory {
	return &SessionMemory{
		ID:       sessionID,
		Role:     role,
		Entities: make(map[string]string),
	}
}

// FlagSet reports whether a named monotonic flag is set.
func (m *SessionMemory) FlagSet(name string) bool {
	switch name {
	case FlagResumeSent:
		return m.ResumeSent
	case FlagResumeOffered:
		return m.ResumeOffered
	case FlagOfferSent:
		return m.OfferSent
	case FlagOwnerAlerted:
		return m.OwnerAlerted
	}
	return false
}

// SetFlag raises a monotonic flag. Lowering is not possible by design.
func (m *SessionMemory) SetFlag(name string) {
	switch name {
	case FlagResumeSent:
		m.ResumeSent = true
	case FlagResumeOffered:
		m.ResumeOffered = true
	case FlagOfferSent:
		m.OfferSent = true
	case FlagOwnerAlerted:
		m.OwnerAlerted = true
	}
}

// RememberTopic appends a topic if it is not already tracked.
func (m *SessionMemory) RememberTopic(topic string) {
	for _, t := range m.Topics {
		if t == topic {
			return
		}
	}
	m.Topics = append(m.Topics, topic)
}
