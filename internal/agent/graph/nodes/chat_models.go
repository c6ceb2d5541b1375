package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"google.golang.org/genai"

	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/model"
	logx "github.com/Mincaai-cci-col/CCI-colombia-agent/pkg/logger"
)

// ChatModelConfig holds the configuration for chat model creation
type ChatModelConfig struct {
	APIKey           string
	BaseURL          string
	RespConfig       *model.ResponseModelConfig
	ClassifierConfig *model.ClassifierModelConfig
}

// ChatModels is a factory for the Gemini chat models used by the agent.
// The classifier model is shared and never has tools bound to it; response
// models are minted per harness so tool binding never mutates a model that
// another in-flight turn is using.
type ChatModels struct {
	Classifier          *gemini.ChatModel
	ClassifierModelName string
	ResponseModelName   string

	client   *genai.Client
	respCfg  model.ResponseModelConfig
	clsfgCfg model.ClassifierModelConfig
}

// NewChatModels creates the shared Gemini client and the classifier model.
func NewChatModels(ctx context.Context, config ChatModelConfig) (*ChatModels, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	classifier, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.ClassifierConfig.Model,
		Temperature: &config.ClassifierConfig.Temperature,
		MaxTokens:   &config.ClassifierConfig.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating classifier model")
		return nil, fmt.Errorf("error creating classifier model: %w", err)
	}

	return &ChatModels{
		Classifier:          classifier,
		ClassifierModelName: config.ClassifierConfig.Model,
		ResponseModelName:   config.RespConfig.Model,
		client:              client,
		respCfg:             *config.RespConfig,
		clsfgCfg:            *config.ClassifierConfig,
	}, nil
}

// Client exposes the underlying genai client so other components (embeddings)
// can reuse the same credentials and transport.
func (cm *ChatModels) Client() *genai.Client {
	return cm.client
}

// NewResponseModel mints a fresh response chat model. Callers bind tools to
// the returned instance; the factory never hands out a shared one.
func (cm *ChatModels) NewResponseModel(ctx context.Context) (*gemini.ChatModel, error) {
	respModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      cm.client,
		Model:       cm.respCfg.Model,
		Temperature: &cm.respCfg.Temperature,
		MaxTokens:   &cm.respCfg.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating response model")
		return nil, fmt.Errorf("error creating response model: %w", err)
	}
	return respModel, nil
}
