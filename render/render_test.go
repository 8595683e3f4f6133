package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/mpcbench/config"
	"github.com/katalvlaran/mpcbench/core"
	"github.com/katalvlaran/mpcbench/logging"
	"github.com/katalvlaran/mpcbench/render"
)

var ban = core.Tag{Version: core.TagVersion, Kind: core.KindThread, Rule: core.RuleBanWindow, Date: "2026-01-21", From: "10:00", To: "10:45"}

func request() render.Request {
	return render.Request{
		Kind:   config.SeedBanWindow,
		Seed:   "I'm out on {date} from {from} to {to}, please avoid that. {tag}",
		Values: map[string]string{"date": "2026-01-21", "from": "10:00", "to": "10:45"},
		Tags:   []core.Tag{ban},
	}
}

// TestFill covers substitution, appended tokens and missing values.
func TestFill(t *testing.T) {
	text, err := render.Fill(request())
	require.NoError(t, err)
	assert.Equal(t, "I'm out on 2026-01-21 from 10:00 to 10:45, please avoid that. "+ban.Token(), text)
	require.NoError(t, render.Verify(text, []core.Tag{ban}))

	req := request()
	req.Seed = "No placeholder for the tag."
	text, err = render.Fill(req)
	require.NoError(t, err)
	assert.Equal(t, "No placeholder for the tag. "+ban.Token(), text)

	req = request()
	req.Values = nil
	_, err = render.Fill(req)
	assert.ErrorIs(t, err, render.ErrMissingValue)

	req = render.Request{Seed: "Thanks, will take a look."}
	text, err = render.Template{}.Render(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Thanks, will take a look.", text)
}

// TestVerify reports a token that was paraphrased away.
func TestVerify(t *testing.T) {
	err := render.Verify("I'm out on Wednesday morning.", []core.Tag{ban})
	assert.ErrorIs(t, err, render.ErrTagDropped)
	assert.NoError(t, render.Verify("anything", nil))
}

type fakeChat struct {
	reply string
	err   error
	got   []openai.ChatCompletionRequest
}

func (f *fakeChat) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.got = append(f.got, req)
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{
		{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: f.reply}},
	}}, nil
}

func openAIConfig() config.RendererConfig {
	cfg := config.Default().Renderer
	cfg.Strategy = "openai"
	return cfg
}

// TestOpenAI_Render sends the filled draft and keeps a faithful reply.
func TestOpenAI_Render(t *testing.T) {
	fake := &fakeChat{reply: "  Heads up: Wednesday 10:00-10:45 is out for me. " + ban.Token() + "\n"}
	o, err := render.NewOpenAI(openAIConfig(), render.WithClient(fake))
	require.NoError(t, err)

	text, err := o.Render(context.Background(), request())
	require.NoError(t, err)
	assert.Equal(t, "Heads up: Wednesday 10:00-10:45 is out for me. "+ban.Token(), text)

	require.Len(t, fake.got, 1)
	assert.Equal(t, "gpt-4o-mini", fake.got[0].Model)
	require.Len(t, fake.got[0].Messages, 2)
	assert.Contains(t, fake.got[0].Messages[1].Content, ban.Token())
}

// TestOpenAI_Failures maps client errors, empty replies and dropped tags.
func TestOpenAI_Failures(t *testing.T) {
	boom := errors.New("503")
	cases := []struct {
		name string
		fake *fakeChat
		want error
	}{
		{"ClientError", &fakeChat{err: boom}, boom},
		{"Empty", &fakeChat{reply: "   "}, render.ErrEmptyResponse},
		{"Dropped", &fakeChat{reply: "I'm out Wednesday morning."}, render.ErrTagDropped},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o, err := render.NewOpenAI(openAIConfig(), render.WithClient(tc.fake))
			require.NoError(t, err)
			_, err = o.Render(context.Background(), request())
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

// TestNewOpenAI_MissingKey is a configuration error.
func TestNewOpenAI_MissingKey(t *testing.T) {
	t.Setenv("MPCBENCH_TEST_OPENAI_KEY", "")
	cfg := openAIConfig()
	cfg.APIKeyEnv = "MPCBENCH_TEST_OPENAI_KEY"
	_, err := render.NewOpenAI(cfg)
	assert.ErrorIs(t, err, config.ErrInvalid)

	t.Setenv("MPCBENCH_TEST_OPENAI_KEY", "sk-test")
	_, err = render.NewOpenAI(cfg)
	assert.NoError(t, err)
}

// TestChain_Fallback logs and falls back when the primary drops a tag.
func TestChain_Fallback(t *testing.T) {
	obs, logs := observer.New(zap.WarnLevel)
	o, err := render.NewOpenAI(openAIConfig(), render.WithClient(&fakeChat{reply: "paraphrased away"}))
	require.NoError(t, err)
	chain := &render.Chain{Primary: o, Fallback: render.Template{}, Log: logging.NewWithCore(obs)}

	text, err := chain.Render(context.Background(), request())
	require.NoError(t, err)
	want, _ := render.Fill(request())
	assert.Equal(t, want, text)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "renderer fallback", logs.All()[0].Message)

	good, err := render.NewOpenAI(openAIConfig(), render.WithClient(&fakeChat{reply: "ok " + ban.Token()}))
	require.NoError(t, err)
	chain.Primary = good
	text, err = chain.Render(context.Background(), request())
	require.NoError(t, err)
	assert.Equal(t, "ok "+ban.Token(), text)
	assert.Equal(t, 1, logs.Len())
}

// TestNew_Strategies selects the configured renderer.
func TestNew_Strategies(t *testing.T) {
	r, err := render.New(config.Default().Renderer, logging.Nop())
	require.NoError(t, err)
	assert.IsType(t, render.Template{}, r)

	t.Setenv("MPCBENCH_TEST_OPENAI_KEY", "sk-test")
	cfg := openAIConfig()
	cfg.APIKeyEnv = "MPCBENCH_TEST_OPENAI_KEY"
	r, err = render.New(cfg, logging.Nop())
	require.NoError(t, err)
	assert.IsType(t, &render.Chain{}, r)

	cfg.Fallback = false
	r, err = render.New(cfg, logging.Nop())
	require.NoError(t, err)
	assert.IsType(t, &render.OpenAI{}, r)

	cfg.Strategy = "carrier-pigeon"
	_, err = render.New(cfg, logging.Nop())
	assert.ErrorIs(t, err, config.ErrInvalid)

	// No silent default for a hand-built config.
	_, err = render.New(config.RendererConfig{}, logging.Nop())
	assert.ErrorIs(t, err, config.ErrInvalid)
	assert.ErrorContains(t, err, `unknown strategy ""`)
}
