package conversation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataplug/copilot-service/internal/domain/models"
	memorystore "github.com/dataplug/copilot-service/internal/infrastructure/sessionstore/memory"
	"github.com/dataplug/copilot-service/internal/services/retrieval"
)

type stubSynth struct {
	audio []byte
	calls int
}

func (s *stubSynth) Synthesize(ctx context.Context, text string) ([]byte, error) {
	s.calls++
	return s.audio, nil
}

func (s *stubSynth) IsAvailable() bool { return true }

type stubGeocoder struct{}

func (stubGeocoder) Resolve(ctx context.Context, placeName string) *models.PlaceInfo {
	lat, lon := 35.0, 139.0
	return &models.PlaceInfo{Name: placeName, Latitude: &lat, Longitude: &lon}
}

func newTestService(t *testing.T, retriever retrieval.Searcher, synth *stubSynth) *Service {
	t.Helper()
	store := memorystore.NewStore(memorystore.Config{TTL: time.Minute, MaxSessions: 100})
	t.Cleanup(func() { store.Close() })
	return NewService(store, stubLLM{}, retriever, synth, stubGeocoder{})
}

func TestServiceCreateAndWelcome(t *testing.T) {
	svc := newTestService(t, &stubRetriever{}, &stubSynth{})
	ctx := context.Background()

	sessionID, err := svc.CreateSession(ctx, SeedData{Preferences: map[string]string{"drink": "コーヒー"}})
	require.NoError(t, err)
	require.NotEmpty(t, sessionID)

	reply, err := svc.GetWelcomeMessage(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, sessionID, reply.SessionID)
	assert.Equal(t, welcomeMessage, reply.Message)
	assert.Zero(t, reply.TurnCount)

	// Welcome appends exactly one assistant message.
	exists, err := svc.SessionExists(ctx, sessionID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestServiceWelcomeCreatesSessionLazily(t *testing.T) {
	svc := newTestService(t, &stubRetriever{}, &stubSynth{})

	reply, err := svc.GetWelcomeMessage(context.Background(), "")
	require.NoError(t, err)
	assert.NotEmpty(t, reply.SessionID)

	exists, err := svc.SessionExists(context.Background(), reply.SessionID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestServiceProcessMessageFullFlow(t *testing.T) {
	synth := &stubSynth{audio: []byte("pcm")}
	svc := newTestService(t, &stubRetriever{results: hits("Blue Bottle Coffee")}, synth)
	ctx := context.Background()

	welcome, err := svc.GetWelcomeMessage(ctx, "")
	require.NoError(t, err)
	sessionID := welcome.SessionID

	send := func(msg string) *Reply {
		reply, err := svc.ProcessMessage(ctx, Request{Message: msg, SessionID: sessionID})
		require.NoError(t, err)
		return reply
	}

	r := send("東京駅")
	assert.Equal(t, 1, r.TurnCount)
	assert.False(t, r.IsComplete)

	r = send("横浜")
	assert.Equal(t, 2, r.TurnCount)
	require.NotNil(t, r.Destination)
	assert.Equal(t, "横浜", r.Destination.Name)

	r = send("コーヒーが飲みたい")
	assert.Equal(t, 3, r.TurnCount)
	assert.Contains(t, r.Message, "Blue Bottle Coffee")
	require.NotNil(t, r.SuggestionIndex)
	assert.Equal(t, 0, *r.SuggestionIndex)
	require.NotNil(t, r.SuggestionTotal)
	assert.Equal(t, 1, *r.SuggestionTotal)

	r = send("はい")
	assert.Equal(t, 4, r.TurnCount)
	assert.True(t, r.IsComplete)
	require.NotNil(t, r.Stopover)
	assert.Equal(t, "Blue Bottle Coffee", r.Stopover.Name)

	// Scripted replies carry no audio.
	assert.False(t, r.HasAudio)
	assert.Zero(t, synth.calls)
}

func TestServiceTurnCountIncrementsOnAmbiguousInput(t *testing.T) {
	svc := newTestService(t, &stubRetriever{results: hits("候補A")}, &stubSynth{})
	ctx := context.Background()

	welcome, err := svc.GetWelcomeMessage(ctx, "")
	require.NoError(t, err)
	sessionID := welcome.SessionID

	for i, msg := range []string{"東京駅", "横浜", "カフェ", "うーん"} {
		reply, err := svc.ProcessMessage(ctx, Request{Message: msg, SessionID: sessionID})
		require.NoError(t, err)
		assert.Equal(t, i+1, reply.TurnCount)
	}
}

func TestServiceProcessMessageRejectsEmpty(t *testing.T) {
	svc := newTestService(t, &stubRetriever{}, &stubSynth{})

	_, err := svc.ProcessMessage(context.Background(), Request{Message: ""})
	require.Error(t, err)
}

func TestServiceGeneratedReplyGetsAudio(t *testing.T) {
	synth := &stubSynth{audio: []byte("pcm")}
	svc := newTestService(t, &stubRetriever{}, synth)
	ctx := context.Background()

	sessionID, err := svc.CreateSession(ctx, SeedData{})
	require.NoError(t, err)

	// Drive the session into the navigating phase, then free-chat.
	for _, msg := range []string{"東京駅", "横浜", "カフェ"} {
		_, err := svc.ProcessMessage(ctx, Request{Message: msg, SessionID: sessionID})
		require.NoError(t, err)
	}

	reply, err := svc.ProcessMessage(ctx, Request{Message: "この辺の天気は？", SessionID: sessionID})
	require.NoError(t, err)
	assert.True(t, reply.HasAudio)
	assert.Equal(t, []byte("pcm"), reply.AudioData)
	assert.Equal(t, 1, synth.calls)
}

func TestServiceTimeoutResponse(t *testing.T) {
	svc := newTestService(t, &stubRetriever{}, &stubSynth{})
	ctx := context.Background()

	sessionID, err := svc.CreateSession(ctx, SeedData{})
	require.NoError(t, err)

	_, err = svc.ProcessMessage(ctx, Request{Message: "東京駅", SessionID: sessionID})
	require.NoError(t, err)

	before, err := svc.ProcessMessage(ctx, Request{Message: "横浜", SessionID: sessionID})
	require.NoError(t, err)

	reply, err := svc.GenerateTimeoutResponse(ctx, sessionID)
	require.NoError(t, err)
	require.NotNil(t, reply)
	assert.NotEmpty(t, reply.Message)

	// A timeout prompt consumes no user turn and leaves the phase intact.
	assert.Equal(t, before.TurnCount, reply.TurnCount)
	after, err := svc.ProcessMessage(ctx, Request{Message: "カフェ", SessionID: sessionID})
	require.NoError(t, err)
	assert.Equal(t, before.TurnCount+1, after.TurnCount)
}

func TestServiceTimeoutResponseAbsentSession(t *testing.T) {
	svc := newTestService(t, &stubRetriever{}, &stubSynth{})

	reply, err := svc.GenerateTimeoutResponse(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, reply)
}

func TestServiceDeleteSession(t *testing.T) {
	svc := newTestService(t, &stubRetriever{}, &stubSynth{})
	ctx := context.Background()

	sessionID, err := svc.CreateSession(ctx, SeedData{})
	require.NoError(t, err)

	existed, err := svc.DeleteSession(ctx, sessionID)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = svc.DeleteSession(ctx, sessionID)
	require.NoError(t, err)
	assert.False(t, existed)

	_, err = svc.SessionTTL(ctx, sessionID)
	require.Error(t, err)
}

func TestServiceTTLAndExtend(t *testing.T) {
	svc := newTestService(t, &stubRetriever{}, &stubSynth{})
	ctx := context.Background()

	sessionID, err := svc.CreateSession(ctx, SeedData{})
	require.NoError(t, err)

	ttl, err := svc.SessionTTL(ctx, sessionID)
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, svc.ExtendSession(ctx, sessionID))
	require.Error(t, svc.ExtendSession(ctx, "missing"))
}

func TestServiceCacheStatsAndCleanup(t *testing.T) {
	svc := newTestService(t, &stubRetriever{}, &stubSynth{})
	ctx := context.Background()

	_, err := svc.CreateSession(ctx, SeedData{})
	require.NoError(t, err)

	stats, err := svc.CacheStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ActiveSessions)

	removed, err := svc.CleanupExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
