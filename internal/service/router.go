package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"askbuilding/internal/model"
)

// GraphStore is the read side of the graph repository.
type GraphStore interface {
	Run(ctx context.Context, cypher string) ([]map[string]any, error)
	QueryTopology(ctx context.Context, p model.TopologyParams, limit int) (*model.TopologyResult, error)
	FindRoomCandidates(ctx context.Context, name string, limit int) ([]model.RoomRecord, error)
}

// TimeSeriesStore is the slice of the time-series repository the query flow
// needs.
type TimeSeriesStore interface {
	Run(ctx context.Context, flux string) ([]map[string]any, error)
	LatestBySensor(ctx context.Context, sensorIDs []string, rangeToken, defaultRange string) (map[string]model.SensorReading, error)
	Bucket() string
}

// QueryGenerator produces query text from a prompt.
type QueryGenerator interface {
	GenerateQuery(ctx context.Context, prompt string) (string, error)
}

// QueryAuditor records executed generated queries. May be nil (auditing
// disabled).
type QueryAuditor interface {
	Record(ctx context.Context, e model.AuditEntry) error
}

// QueryRouter implements the plain query flow: classify the question, have
// the language model write a backend query, execute it verbatim, return the
// rows. All failures propagate to the caller; the persona rendering lives in
// the toolkit surface instead.
type QueryRouter struct {
	classifier *IntentClassifier
	prompts    *PromptBuilder
	generator  QueryGenerator
	graph      GraphStore
	ts         TimeSeriesStore
	sensors    *SensorConfigStore
	audit      QueryAuditor
	log        *zap.SugaredLogger
}

// NewQueryRouter wires the query flow together. audit may be nil.
func NewQueryRouter(
	generator QueryGenerator,
	graph GraphStore,
	ts TimeSeriesStore,
	sensors *SensorConfigStore,
	audit QueryAuditor,
	log *zap.SugaredLogger,
) *QueryRouter {
	return &QueryRouter{
		classifier: NewIntentClassifier(),
		prompts:    NewPromptBuilder(),
		generator:  generator,
		graph:      graph,
		ts:         ts,
		sensors:    sensors,
		audit:      audit,
		log:        log,
	}
}

// Ask routes a natural-language question to the graph or time-series store.
func (r *QueryRouter) Ask(ctx context.Context, req *model.AskRequest) (*model.AskResponse, error) {
	start := time.Now()
	intent := r.classifier.Classify(req.Question)

	resp := &model.AskResponse{
		ID:     uuid.NewString(),
		Intent: intent,
	}

	var err error
	switch intent {
	case model.IntentStructural:
		err = r.askStructural(ctx, req, resp)
	case model.IntentTimeSeries:
		err = r.askTimeSeries(ctx, req, resp)
	default:
		err = r.askFallback(ctx, req, resp)
	}
	if err != nil {
		return nil, err
	}

	resp.Took = time.Since(start).Milliseconds()
	return resp, nil
}

func (r *QueryRouter) askStructural(ctx context.Context, req *model.AskRequest, resp *model.AskResponse) error {
	cypher, err := r.generator.GenerateQuery(ctx, r.prompts.StructuralQuery(req.Question))
	if err != nil {
		return fmt.Errorf("generate structural query: %w", err)
	}
	rows, err := r.runCypher(ctx, req.Question, resp, cypher)
	if err != nil {
		return err
	}
	resp.Rows = rows
	return nil
}

func (r *QueryRouter) askFallback(ctx context.Context, req *model.AskRequest, resp *model.AskResponse) error {
	cypher, err := r.generator.GenerateQuery(ctx, r.prompts.FallbackQuery(req.Question))
	if err != nil {
		return fmt.Errorf("generate fallback query: %w", err)
	}
	rows, err := r.runCypher(ctx, req.Question, resp, cypher)
	if err != nil {
		return err
	}
	resp.Rows = rows
	return nil
}

// askTimeSeries resolves the room identity through the graph store, maps it
// to a sensor via the config file, then queries the time-series store.
func (r *QueryRouter) askTimeSeries(ctx context.Context, req *model.AskRequest, resp *model.AskResponse) error {
	if strings.TrimSpace(req.RoomName) == "" {
		return model.ErrRoomNameRequired
	}

	lookup, err := r.generator.GenerateQuery(ctx, r.prompts.RoomKeyLookup(req.RoomName))
	if err != nil {
		return fmt.Errorf("generate room lookup query: %w", err)
	}
	rows, err := r.runCypher(ctx, req.Question, resp, lookup)
	if err != nil {
		return err
	}

	roomKey := extractRoomKey(rows)
	if roomKey == "" {
		return fmt.Errorf("%w: %q", model.ErrNoRoomMatch, req.RoomName)
	}

	cfg, err := r.sensors.Get()
	if err != nil {
		return err
	}
	mapping, ok := cfg.RoomToSensorMap[roomKey]
	if !ok || mapping.Empty() {
		return fmt.Errorf("%w: %s", model.ErrNoSensorMapping, roomKey)
	}
	sensorID := mapping.All()[0].ID

	flux, err := r.generator.GenerateQuery(ctx, r.prompts.SensorQuery(sensorID, req.Question))
	if err != nil {
		return fmt.Errorf("generate sensor query: %w", err)
	}
	flux = strings.ReplaceAll(flux, BucketPlaceholder, fmt.Sprintf("%q", r.ts.Bucket()))

	tsRows, err := r.runFlux(ctx, req.Question, resp, flux)
	if err != nil {
		return err
	}
	resp.Rows = tsRows
	return nil
}

// extractRoomKey pulls the room_key out of the lookup result, falling back to
// the first value of the first row when the model aliased the column
// differently.
func extractRoomKey(rows []map[string]any) string {
	if len(rows) == 0 {
		return ""
	}
	if key, ok := rows[0]["room_key"].(string); ok && key != "" {
		return key
	}
	for _, v := range rows[0] {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func (r *QueryRouter) runCypher(ctx context.Context, question string, resp *model.AskResponse, cypher string) ([]map[string]any, error) {
	gq := model.GeneratedQuery{Dialect: model.DialectCypher, Text: cypher}
	resp.Queries = append(resp.Queries, gq)

	start := time.Now()
	rows, err := r.graph.Run(ctx, cypher)
	r.recordAudit(question, resp.Intent, gq, len(rows), time.Since(start), err)
	return rows, err
}

func (r *QueryRouter) runFlux(ctx context.Context, question string, resp *model.AskResponse, flux string) ([]map[string]any, error) {
	gq := model.GeneratedQuery{Dialect: model.DialectFlux, Text: flux}
	resp.Queries = append(resp.Queries, gq)

	start := time.Now()
	rows, err := r.ts.Run(ctx, flux)
	r.recordAudit(question, resp.Intent, gq, len(rows), time.Since(start), err)
	return rows, err
}

// recordAudit writes the audit entry without blocking the request, matching
// how search logging works elsewhere in this codebase.
func (r *QueryRouter) recordAudit(question string, intent model.Intent, gq model.GeneratedQuery, rowCount int, took time.Duration, execErr error) {
	if r.audit == nil {
		return
	}
	entry := model.AuditEntry{
		ID:        uuid.NewString(),
		AskedAt:   time.Now().UTC(),
		Question:  question,
		Intent:    intent,
		Dialect:   gq.Dialect,
		QueryText: gq.Text,
		RowCount:  rowCount,
		Duration:  took,
	}
	if execErr != nil {
		entry.ErrorText = execErr.Error()
	}
	go func() {
		if err := r.audit.Record(context.Background(), entry); err != nil {
			r.log.Warnw("failed to record audit entry", "error", err)
		}
	}()
}
