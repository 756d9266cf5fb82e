package speech

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Service manages one realtime recognizer per conversation session.
type Service struct {
	cfg ASRConfig

	mu          sync.Mutex
	recognizers map[string]*Recognizer
}

// NewService creates a recognizer registry with the given configuration.
func NewService(cfg ASRConfig) *Service {
	return &Service{
		cfg:         cfg,
		recognizers: make(map[string]*Recognizer),
	}
}

// IsAvailable reports whether realtime recognition is configured.
func (s *Service) IsAvailable() bool {
	return s.cfg.APIKey != ""
}

// Open creates a recognizer for the session, closing any existing one first.
func (s *Service) Open(sessionID string) (*Recognizer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.recognizers[sessionID]; ok {
		_ = existing.Close()
		delete(s.recognizers, sessionID)
	}

	rec, err := NewRecognizer(s.cfg)
	if err != nil {
		return nil, err
	}
	s.recognizers[sessionID] = rec
	log.Info().Str("session_id", sessionID).Msg("asr session opened")
	return rec, nil
}

// Get returns the recognizer for the session, if one is open.
func (s *Service) Get(sessionID string) (*Recognizer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recognizers[sessionID]
	return rec, ok
}

// CloseSession closes and removes the session's recognizer.
func (s *Service) CloseSession(sessionID string) {
	s.mu.Lock()
	rec, ok := s.recognizers[sessionID]
	if ok {
		delete(s.recognizers, sessionID)
	}
	s.mu.Unlock()

	if ok {
		_ = rec.Close()
		log.Info().Str("session_id", sessionID).Msg("asr session closed")
	}
}

// CloseAll closes every open recognizer. Called on shutdown.
func (s *Service) CloseAll() {
	s.mu.Lock()
	recs := s.recognizers
	s.recognizers = make(map[string]*Recognizer)
	s.mu.Unlock()

	for id, rec := range recs {
		_ = rec.Close()
		log.Debug().Str("session_id", id).Msg("asr session closed on shutdown")
	}
}
