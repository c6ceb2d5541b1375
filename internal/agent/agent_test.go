package agent

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/model"
	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/prompts"
	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/session"
)

// fakeRunner returns scripted replies in order, then repeats the last.
type fakeRunner struct {
	replies []string
	err     error
	inputs  [][]*schema.Message
}

func (f *fakeRunner) Run(ctx context.Context, msgs []*schema.Message) (*schema.Message, error) {
	f.inputs = append(f.inputs, msgs)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.replies) == 0 {
		return schema.AssistantMessage("ok", nil), nil
	}
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return schema.AssistantMessage(reply, nil), nil
}

// fakeBuilder records every build request and hands out harnesses that
// share one scripted runner.
type fakeBuilder struct {
	runner *fakeRunner
	builds []string
	err    error
	panics bool
}

func (f *fakeBuilder) Build(ctx context.Context, lang model.Language, mode model.Mode, client *model.ClientInfo) (*model.Harness, error) {
	if f.panics {
		panic("builder exploded")
	}
	f.builds = append(f.builds, fmt.Sprintf("%s/%s", lang, mode))
	if f.err != nil {
		return nil, f.err
	}
	return &model.Harness{
		Language:     lang,
		Mode:         mode,
		SystemPrompt: fmt.Sprintf("SYSTEM %s %s", lang, mode),
		Runner:       f.runner,
	}, nil
}

type fakeDetector struct {
	lang  model.Language
	calls int
}

func (f *fakeDetector) Detect(ctx context.Context, userText string) model.Language {
	f.calls++
	return f.lang
}

type noopSummarizer struct{}

func (noopSummarizer) Summarize(ctx context.Context, existing string, evicted []*schema.Message) (string, error) {
	return existing, nil
}

// fakeSessions is a map-backed SessionRepository with injectable errors.
type fakeSessions struct {
	stored  map[string][]byte
	loadErr error
	saveErr error
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{stored: map[string][]byte{}}
}

func (f *fakeSessions) Load(ctx context.Context, userID string) (*session.Session, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	b, ok := f.stored[userID]
	if !ok {
		return nil, nil
	}
	return session.Unmarshal(b)
}

func (f *fakeSessions) Save(ctx context.Context, userID string, s *session.Session) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	b, err := session.Marshal(s)
	if err != nil {
		return err
	}
	f.stored[userID] = b
	return nil
}

func (f *fakeSessions) Delete(ctx context.Context, userID string) error {
	delete(f.stored, userID)
	return nil
}

type fakeContacts struct {
	info  *model.ClientInfo
	calls int
}

func (f *fakeContacts) Lookup(ctx context.Context, userID string) (*model.ClientInfo, error) {
	f.calls++
	return f.info, nil
}

func newTestOrchestrator(sessions *fakeSessions, builder *fakeBuilder, detector *fakeDetector, contacts ContactDirectory) *Orchestrator {
	return NewOrchestrator(sessions, builder, detector, noopSummarizer{}, contacts, 2000)
}

func TestHandleFirstTurnLocksLanguageAndPersists(t *testing.T) {
	sessions := newFakeSessions()
	builder := &fakeBuilder{runner: &fakeRunner{replies: []string{"¡Con gusto! ¿Cuál es el nombre de tu empresa?"}}}
	detector := &fakeDetector{lang: model.Spanish}
	contacts := &fakeContacts{info: &model.ClientInfo{Company: "Café del Valle"}}

	o := newTestOrchestrator(sessions, builder, detector, contacts)
	reply := o.Handle(context.Background(), "573001112233", "Hola, estoy listo")

	assert.Equal(t, "¡Con gusto! ¿Cuál es el nombre de tu empresa?", reply)
	assert.Equal(t, 1, detector.calls)
	assert.Equal(t, 1, contacts.calls)

	// Harness built once with the default language, then rebuilt after
	// detection locked Spanish.
	assert.Equal(t, []string{"fr/questionnaire", "es/questionnaire"}, builder.builds)

	stored, err := sessions.Load(context.Background(), "573001112233")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, model.Spanish, stored.Language)
	assert.True(t, stored.LanguageLocked)
	assert.False(t, stored.FirstTurnPending)
	assert.Equal(t, model.ModeQuestionnaire, stored.Mode)
	require.NotNil(t, stored.Client)
	assert.Equal(t, "Café del Valle", stored.Client.Company)
	require.Len(t, stored.Messages, 2)
	assert.Equal(t, "Hola, estoy listo", stored.Messages[0].Content)
	assert.False(t, stored.LastUpdated.IsZero())
}

func TestHandleSecondTurnSkipsDetection(t *testing.T) {
	sessions := newFakeSessions()
	builder := &fakeBuilder{runner: &fakeRunner{}}
	detector := &fakeDetector{lang: model.Spanish}
	o := newTestOrchestrator(sessions, builder, detector, nil)

	o.Handle(context.Background(), "u1", "Hola")
	require.Equal(t, 1, detector.calls)

	o.Handle(context.Background(), "u1", "french words now: bonjour merci")
	assert.Equal(t, 1, detector.calls, "language is locked after the first turn")

	stored, err := sessions.Load(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, model.Spanish, stored.Language)
	require.Len(t, stored.Messages, 4)
}

func TestHandleAppliesModeTransition(t *testing.T) {
	sessions := newFakeSessions()
	builder := &fakeBuilder{runner: &fakeRunner{replies: []string{
		"Merci pour vos réponses ! Je vous recommande notre pack export. " +
			"Prochaine étape : contactez votre conseiller sur https://wa.me/573001234567",
	}}}
	o := newTestOrchestrator(sessions, builder, &fakeDetector{lang: model.French}, nil)

	o.Handle(context.Background(), "u2", "D'accord, merci")

	stored, err := sessions.Load(context.Background(), "u2")
	require.NoError(t, err)
	assert.Equal(t, model.ModeAssistance, stored.Mode)
	assert.True(t, stored.QuestionnaireCompleted)

	// The mode never reverts, whatever later replies look like.
	builder.runner.replies = []string{"Voici la réponse à votre question."}
	o.Handle(context.Background(), "u2", "Une question sur les événements")
	stored, err = sessions.Load(context.Background(), "u2")
	require.NoError(t, err)
	assert.Equal(t, model.ModeAssistance, stored.Mode)
}

func TestHandleRunnerFailureReturnsLocalizedApology(t *testing.T) {
	sessions := newFakeSessions()
	builder := &fakeBuilder{runner: &fakeRunner{err: errors.New("upstream 500")}}
	o := newTestOrchestrator(sessions, builder, &fakeDetector{lang: model.Spanish}, nil)

	reply := o.Handle(context.Background(), "u3", "Hola")

	assert.Equal(t, prompts.Apology(model.Spanish), reply)
	assert.NotContains(t, reply, "500", "internal error detail must not leak")

	// The failed turn is still recorded as the user saw it.
	stored, err := sessions.Load(context.Background(), "u3")
	require.NoError(t, err)
	require.Len(t, stored.Messages, 2)
	assert.Equal(t, prompts.Apology(model.Spanish), stored.Messages[1].Content)
}

func TestHandleEmptyModelReplyDegradesToApology(t *testing.T) {
	sessions := newFakeSessions()
	builder := &fakeBuilder{runner: &fakeRunner{replies: []string{"   "}}}
	o := newTestOrchestrator(sessions, builder, &fakeDetector{lang: model.French}, nil)

	reply := o.Handle(context.Background(), "u4", "Bonjour")
	assert.Equal(t, prompts.Apology(model.French), reply)
}

func TestHandleBuilderFailureReturnsApology(t *testing.T) {
	sessions := newFakeSessions()
	builder := &fakeBuilder{runner: &fakeRunner{}, err: errors.New("no api key")}
	o := newTestOrchestrator(sessions, builder, &fakeDetector{lang: model.French}, nil)

	reply := o.Handle(context.Background(), "u5", "Bonjour")
	assert.Equal(t, prompts.Apology(model.French), reply)
}

func TestHandleRecoversFromPanic(t *testing.T) {
	sessions := newFakeSessions()
	builder := &fakeBuilder{runner: &fakeRunner{}, panics: true}
	o := newTestOrchestrator(sessions, builder, &fakeDetector{lang: model.French}, nil)

	reply := o.Handle(context.Background(), "u6", "Bonjour")
	assert.Equal(t, prompts.Apology(model.French), reply)
}

func TestHandleStartsFreshWhenLoadFails(t *testing.T) {
	sessions := newFakeSessions()
	sessions.loadErr = errors.New("store down")
	builder := &fakeBuilder{runner: &fakeRunner{replies: []string{"Bonjour !"}}}
	o := newTestOrchestrator(sessions, builder, &fakeDetector{lang: model.French}, nil)

	reply := o.Handle(context.Background(), "u7", "Bonjour")
	assert.Equal(t, "Bonjour !", reply)
}

func TestHandleAssemblesContextInOrder(t *testing.T) {
	sessions := newFakeSessions()
	runner := &fakeRunner{replies: []string{"Réponse."}}
	builder := &fakeBuilder{runner: runner}
	o := newTestOrchestrator(sessions, builder, &fakeDetector{lang: model.French}, nil)

	// Seed a session with history and a summary.
	s := session.New()
	s.LockLanguage(model.French)
	s.Messages = []*schema.Message{
		schema.UserMessage("question précédente"),
		schema.AssistantMessage("réponse précédente", nil),
	}
	s.Summary = "Le client cherche un local à Bogota."
	require.NoError(t, sessions.Save(context.Background(), "u8", s))

	o.Handle(context.Background(), "u8", "nouvelle question")

	require.Len(t, runner.inputs, 1)
	msgs := runner.inputs[0]
	require.Len(t, msgs, 5)
	assert.Equal(t, schema.System, msgs[0].Role)
	assert.Equal(t, schema.System, msgs[1].Role)
	assert.Contains(t, msgs[1].Content, s.Summary)
	assert.Contains(t, msgs[1].Content, prompts.SummaryPreamble(model.French))
	assert.Equal(t, "question précédente", msgs[2].Content)
	assert.Equal(t, "réponse précédente", msgs[3].Content)
	assert.Equal(t, "nouvelle question", msgs[4].Content)
}

func TestStatusAndReset(t *testing.T) {
	sessions := newFakeSessions()
	builder := &fakeBuilder{runner: &fakeRunner{}}
	o := newTestOrchestrator(sessions, builder, &fakeDetector{lang: model.French}, nil)

	got, err := o.Status(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)

	o.Handle(context.Background(), "u9", "Bonjour")
	got, err = o.Status(context.Background(), "u9")
	require.NoError(t, err)
	require.NotNil(t, got)

	require.NoError(t, o.Reset(context.Background(), "u9"))
	got, err = o.Status(context.Background(), "u9")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestWelcomePassthrough(t *testing.T) {
	o := newTestOrchestrator(newFakeSessions(), &fakeBuilder{runner: &fakeRunner{}}, &fakeDetector{lang: model.French}, nil)
	assert.Contains(t, o.Welcome(), "MarIA")
}
