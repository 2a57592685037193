// internal/chat/service.go
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "career-chat-workers/internal/common/errors"
	"career-chat-workers/internal/common/llm"
	"career-chat-workers/internal/common/logger"
	"career-chat-workers/internal/common/metrics"
	"career-chat-workers/internal/common/observability"
	"career-chat-workers/internal/intent"
	"career-chat-workers/internal/models"
	"career-chat-workers/internal/realtime"
	"career-chat-workers/internal/retrieval"
	"career-chat-workers/internal/signals"
	"career-chat-workers/internal/structuring"
)

// Retriever returns the documents relevant to a question.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]retrieval.Document, error)
}

// LiveData fetches realtime records.
type LiveData interface {
	Enabled() bool
	FetchAll(ctx context.Context, sources []models.RealtimeSource) map[models.RealtimeSource][]realtime.Item
}

type AskRequest struct {
	Question       string  `json:"question"`
	ConversationID *string `json:"conversation_id"`
}

// AskResponse is the reply to one turn. Which fields are set depends on Intent.
type AskResponse struct {
	Intent         string                   `json:"intent"`
	ConversationID *string                  `json:"conversation_id"`
	Message        string                   `json:"message,omitempty"`
	ExtractedData  *models.ProfileData      `json:"extracted_data,omitempty"`
	Response       string                   `json:"response,omitempty"`
	Sentiment      string                   `json:"sentiment,omitempty"`
	BiasAnalysis   *signals.BiasAnalysis    `json:"bias_analysis,omitempty"`
	Structured     *models.StructuredAnswer `json:"structured,omitempty"`
	Rendered       string                   `json:"rendered,omitempty"`
	Messages       []models.Message         `json:"messages,omitempty"`
}

type Options struct {
	Generator     llm.Generator
	Conversations models.ConversationRepository
	Retriever     Retriever
	Live          LiveData
	Structurer    *structuring.Structurer
	Observability *observability.Observability
	HistoryLimit  int
	Temperature   float64
}

// Service runs a full conversation turn: intent, sentiment, bias,
// retrieval-augmented answer, structuring and persistence.
type Service struct {
	conversations models.ConversationRepository
	retriever     Retriever
	live          LiveData
	structurer    *structuring.Structurer
	obs           *observability.Observability
	intents       *intent.Detector
	bias          *signals.BiasDetector
	uplift        *signals.Uplifter
	synth         *Synthesizer
	logger        logger.Logger
}

func NewService(opts Options, log logger.Logger) (*Service, error) {
	if opts.Generator == nil || opts.Conversations == nil {
		return nil, errors.New("chat: generator and conversation repository are required")
	}
	if opts.Structurer == nil {
		s, err := structuring.New()
		if err != nil {
			return nil, err
		}
		opts.Structurer = s
	}
	if opts.Observability == nil {
		opts.Observability = observability.NewNoop()
	}
	return &Service{
		conversations: opts.Conversations,
		retriever:     opts.Retriever,
		live:          opts.Live,
		structurer:    opts.Structurer,
		obs:           opts.Observability,
		intents:       intent.NewDetector(opts.Generator),
		bias:          signals.NewBiasDetector(opts.Generator),
		uplift:        signals.NewUplifter(opts.Generator),
		synth:         NewSynthesizer(opts.Generator, opts.HistoryLimit, opts.Temperature),
		logger:        log.With(map[string]interface{}{"component": "chat"}),
	}, nil
}

// Ask handles one user question.
func (s *Service) Ask(ctx context.Context, req AskRequest) (*AskResponse, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, apperrors.NewMissingQuestionError()
	}
	ctx, span := s.obs.StartSpan(ctx, "chat.ask")
	defer span.End()

	var detected intent.Result
	s.stage(ctx, "intent", func(ctx context.Context) {
		var err error
		detected, err = s.intents.Detect(ctx, question)
		if err != nil {
			s.logger.Warn("intent detection failed, treating as general", map[string]interface{}{"error": err.Error()})
		}
	})
	if detected.IsAccountAction() {
		data := detected.Data
		s.countTurn(ctx, detected.Intent)
		return &AskResponse{
			Intent:         detected.Intent,
			ConversationID: req.ConversationID,
			Message:        detected.Message(),
			ExtractedData:  &data,
		}, nil
	}

	conv, err := s.loadOrCreate(ctx, req.ConversationID)
	if err != nil {
		return nil, err
	}
	convID := conv.ID

	sentiment := signals.DetectSentiment(question)
	if signals.NeedsUplift(sentiment, conv) {
		return s.upliftTurn(ctx, conv, question, sentiment)
	}

	var (
		bias signals.BiasAnalysis
		raw  string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.stage(gctx, "bias", func(ctx context.Context) {
			bias = s.bias.Analyze(ctx, question)
		})
		return nil
	})
	g.Go(func() error {
		var err error
		raw, err = s.answer(gctx, question, conv.Messages)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var result structuring.Result
	s.stage(ctx, "structure", func(context.Context) {
		result = s.structurer.Structure(raw)
	})
	metrics.StructuringResults.WithLabelValues(string(result.Tier), string(result.Domain)).Inc()
	if result.Err != nil {
		s.logger.Warn("answer exceeded structuring bound", map[string]interface{}{
			"conversationId": convID,
			"bytes":          len(raw),
		})
	}

	doc := result.Answer
	serialized, err := json.Marshal(doc)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	conv, err = s.conversations.Append(ctx, convID,
		models.Message{Type: models.MessageHuman, Content: question},
		models.Message{Type: models.MessageAI, Content: string(serialized), Intent: models.IntentGeneral},
	)
	if err != nil {
		return nil, err
	}

	rendered := structuring.Render(doc)
	s.countTurn(ctx, models.IntentGeneral)
	s.logger.Info("turn answered", map[string]interface{}{
		"conversationId": convID,
		"tier":           string(result.Tier),
		"domain":         string(result.Domain),
		"sentiment":      string(sentiment),
	})

	return &AskResponse{
		Intent:         models.IntentGeneral,
		ConversationID: &convID,
		Response:       rendered,
		BiasAnalysis:   &bias,
		Structured:     &doc,
		Rendered:       rendered,
		Messages:       conv.Messages,
	}, nil
}

func (s *Service) loadOrCreate(ctx context.Context, id *string) (*models.Conversation, error) {
	if id != nil && strings.TrimSpace(*id) != "" {
		return s.conversations.Get(ctx, strings.TrimSpace(*id))
	}
	return s.conversations.Create(ctx)
}

func (s *Service) upliftTurn(ctx context.Context, conv *models.Conversation, question string, sentiment signals.Sentiment) (*AskResponse, error) {
	var (
		msg       string
		generated bool
	)
	s.stage(ctx, "uplift", func(ctx context.Context) {
		msg, generated = s.uplift.Message(ctx, signals.DefaultUpliftTopic)
	})
	if !generated {
		s.logger.Warn("uplift generation failed, using fallback message", map[string]interface{}{"conversationId": conv.ID})
	}

	if _, err := s.conversations.Append(ctx, conv.ID,
		models.Message{Type: models.MessageHuman, Content: question},
		models.Message{Type: models.MessageAI, Content: msg, Intent: models.IntentUplift},
	); err != nil {
		return nil, err
	}

	s.countTurn(ctx, models.IntentUplift)
	id := conv.ID
	return &AskResponse{
		Intent:         models.IntentUplift,
		ConversationID: &id,
		Response:       msg,
		Sentiment:      string(sentiment),
	}, nil
}

// answer runs the retrieval-augmented generation step.
func (s *Service) answer(ctx context.Context, question string, history []models.Message) (string, error) {
	standalone := question
	s.stage(ctx, "rephrase", func(ctx context.Context) {
		standalone = s.synth.Standalone(ctx, question, history)
	})

	var docs []retrieval.Document
	if s.retriever != nil {
		s.stage(ctx, "retrieve", func(ctx context.Context) {
			var err error
			docs, err = s.retriever.Retrieve(ctx, standalone)
			if err != nil {
				s.logger.Warn("retrieval failed, answering without documents", map[string]interface{}{"error": err.Error()})
				docs = nil
			}
		})
	}

	var live map[models.RealtimeSource][]realtime.Item
	if s.live != nil && s.live.Enabled() {
		if sources := realtime.SourcesFor(structuring.Classify(standalone)); len(sources) > 0 {
			s.stage(ctx, "realtime", func(ctx context.Context) {
				live = s.live.FetchAll(ctx, sources)
			})
		}
	}

	var (
		raw string
		err error
	)
	s.stage(ctx, "generate", func(ctx context.Context) {
		raw, err = s.synth.Answer(ctx, question, BuildContext(docs, live), history)
	})
	if err != nil {
		if errors.Is(err, llm.ErrLLMTimeout) {
			return "", apperrors.NewLLMTimeoutError()
		}
		return "", apperrors.NewLLMSynthesisFailedError(err)
	}
	return raw, nil
}

func (s *Service) stage(ctx context.Context, name string, fn func(context.Context)) {
	ctx, span := s.obs.StartSpan(ctx, "chat."+name)
	start := time.Now()
	fn(ctx)
	s.obs.RecordStageDuration(ctx, name, time.Since(start))
	span.End()
}

func (s *Service) countTurn(ctx context.Context, intentName string) {
	metrics.ChatTurns.WithLabelValues(intentName).Inc()
	s.obs.RecordTurn(ctx, intentName)
}
