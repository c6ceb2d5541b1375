package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/model"
	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/prompts"
)

type fakeKB struct {
	answer string
	err    error
}

func (f *fakeKB) Answer(ctx context.Context, query string, lang model.Language) (string, error) {
	return f.answer, f.err
}

func invoke(t *testing.T, kbTool tool.BaseTool, args string) string {
	t.Helper()
	inv, ok := kbTool.(tool.InvokableTool)
	require.True(t, ok)
	out, err := inv.InvokableRun(context.Background(), args)
	require.NoError(t, err, "the tool must never return an error to the loop")
	return out
}

func TestKnowledgeSearchReturnsAnswer(t *testing.T) {
	kbTool := NewKnowledgeSearchTool(&fakeKB{answer: "La CCI fue fundada en 1923."}, model.Spanish)
	out := invoke(t, kbTool, `{"query":"historia de la CCI"}`)
	assert.Contains(t, out, "La CCI fue fundada en 1923.")
}

func TestKnowledgeSearchFailureIsLocalizedString(t *testing.T) {
	kbTool := NewKnowledgeSearchTool(&fakeKB{err: errors.New("pgvector down")}, model.French)
	out := invoke(t, kbTool, `{"query":"histoire"}`)
	assert.Contains(t, out, prompts.SearchError(model.French))
	assert.NotContains(t, out, "pgvector", "backend detail must not reach the model")
}

func TestKnowledgeSearchEmptyQuery(t *testing.T) {
	kbTool := NewKnowledgeSearchTool(&fakeKB{answer: "unused"}, model.Spanish)
	out := invoke(t, kbTool, `{"query":""}`)
	assert.Contains(t, out, prompts.SearchError(model.Spanish))
}

func TestKnowledgeSearchNilBackend(t *testing.T) {
	kbTool := NewKnowledgeSearchTool(nil, model.French)
	out := invoke(t, kbTool, `{"query":"histoire"}`)
	assert.Contains(t, out, prompts.NothingFound(model.French))
}

func TestAgentToolsInfos(t *testing.T) {
	ts := AgentTools(&fakeKB{}, model.French)
	require.Len(t, ts, 1)

	infos, err := Infos(context.Background(), ts)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, ToolKnowledgeSearch, infos[0].Name)
	assert.NotEmpty(t, infos[0].Desc)
}
