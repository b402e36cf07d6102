package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/pollumap/pollumap/services/api/analytics"
)

// Reply is what the chat endpoint returns to the dashboard.
type Reply struct {
	Message     string       `json:"message"`
	MapCommands []MapCommand `json:"map_commands"`
}

// Service answers a user question in the context of the current
// analysis snapshot.
type Service interface {
	Ask(ctx context.Context, userMessage string, a analytics.Analysis) (Reply, error)
}

// agentMapCommand is the flat shape the model fills in; only the
// fields relevant to the chosen type are expected to be set. It is
// converted to the typed MapCommand union before leaving the package.
type agentMapCommand struct {
	Type       string   `json:"type" jsonschema_description:"One of: focus_station, highlight_stations, filter_data, set_zoom, apply_time_filter"`
	StationID  string   `json:"station_id" jsonschema_description:"Station id for focus_station"`
	StationIDs []string `json:"station_ids" jsonschema_description:"Station ids for highlight_stations"`
	Pollutant  string   `json:"pollutant" jsonschema_description:"pol_a or pol_b, for filter_data"`
	Min        float64  `json:"min" jsonschema_description:"Lower value bound for filter_data, 0 when unused"`
	Max        float64  `json:"max" jsonschema_description:"Upper value bound for filter_data, 0 when unused"`
	Lat        float64  `json:"lat" jsonschema_description:"Viewport center latitude for set_zoom"`
	Lon        float64  `json:"lon" jsonschema_description:"Viewport center longitude for set_zoom"`
	Zoom       int      `json:"zoom" jsonschema_description:"Zoom level for set_zoom"`
	Start      string   `json:"start" jsonschema_description:"RFC3339 start bound for apply_time_filter"`
	End        string   `json:"end" jsonschema_description:"RFC3339 end bound for apply_time_filter"`
}

// agentResponse defines the structured output from the model.
type agentResponse struct {
	Message     string            `json:"message" jsonschema_description:"Natural-language answer shown to the user"`
	MapCommands []agentMapCommand `json:"map_commands" jsonschema_description:"Map actions the dashboard should perform, may be empty"`
}

type openAIService struct {
	client openai.Client
	model  openai.ChatModel
	schema interface{}
}

// GenerateSchema generates a JSON schema for a given type.
func GenerateSchema[T any]() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

// NewOpenAIService creates a Service backed by the OpenAI chat
// completions API.
func NewOpenAIService(apiKey, model string) (Service, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	return &openAIService{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  openai.ChatModel(model),
		schema: GenerateSchema[agentResponse](),
	}, nil
}

const systemPromptHeader = `You are the assistant embedded in a pollution map dashboard. Users ask about air-quality readings from monitoring stations shown on the map.

Answer using ONLY the data summary below. Be concrete and quantitative; cite station names and numbers from the summary. If the summary cannot answer the question, say so.

When a map action would help the user see the answer, attach map commands:
- focus_station: center the map on one station (set station_id)
- highlight_stations: mark several stations (set station_ids)
- filter_data: show only readings of one pollutant within a value range (set pollutant and min/max)
- set_zoom: move the viewport (set lat, lon, zoom)
- apply_time_filter: restrict to a time range (set start and end, RFC3339)

Return strictly the JSON described by the schema.

`

// Ask sends the user question plus the analysis context to the model
// and maps its structured reply onto the closed command union.
func (s *openAIService) Ask(ctx context.Context, userMessage string, a analytics.Analysis) (Reply, error) {
	systemPrompt := systemPromptHeader + a.Prompt()

	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "dashboard_reply",
		Description: openai.String("Answer text plus map commands for the pollution dashboard"),
		Schema:      s.schema,
		Strict:      openai.Bool(true),
	}

	chatResp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userMessage),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: schemaParam},
		},
		Model: s.model,
	})
	if err != nil {
		return Reply{}, fmt.Errorf("error calling OpenAI API: %w", err)
	}

	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return Reply{}, errors.New("received empty response from OpenAI")
	}

	var agent agentResponse
	if err := json.Unmarshal([]byte(chatResp.Choices[0].Message.Content), &agent); err != nil {
		return Reply{}, fmt.Errorf("error unmarshalling OpenAI response: %w", err)
	}

	return Reply{
		Message:     agent.Message,
		MapCommands: convertCommands(agent.MapCommands),
	}, nil
}

func convertCommands(agentCommands []agentMapCommand) []MapCommand {
	commands := make([]MapCommand, 0, len(agentCommands))
	for _, ac := range agentCommands {
		cmd, err := ac.toMapCommand()
		if err != nil {
			log.Printf("dropping map command of type %q: %v", ac.Type, err)
			continue
		}
		commands = append(commands, cmd)
	}
	return commands
}

func (ac agentMapCommand) toMapCommand() (MapCommand, error) {
	switch CommandType(ac.Type) {
	case CommandFocusStation:
		if ac.StationID == "" {
			return MapCommand{}, errors.New("missing station_id")
		}
		return newCommand(CommandFocusStation, FocusStationPayload{StationID: ac.StationID})
	case CommandHighlightStations:
		if len(ac.StationIDs) == 0 {
			return MapCommand{}, errors.New("missing station_ids")
		}
		return newCommand(CommandHighlightStations, HighlightStationsPayload{StationIDs: ac.StationIDs})
	case CommandFilterData:
		payload := FilterDataPayload{Pollutant: ac.Pollutant}
		if ac.Pollutant != string(analytics.PollutantA) && ac.Pollutant != string(analytics.PollutantB) {
			return MapCommand{}, fmt.Errorf("unknown pollutant %q", ac.Pollutant)
		}
		if ac.Min != 0 {
			min := ac.Min
			payload.Min = &min
		}
		if ac.Max != 0 {
			max := ac.Max
			payload.Max = &max
		}
		return newCommand(CommandFilterData, payload)
	case CommandSetZoom:
		return newCommand(CommandSetZoom, SetZoomPayload{Lat: ac.Lat, Lon: ac.Lon, Zoom: ac.Zoom})
	case CommandApplyTimeFilter:
		if ac.Start == "" && ac.End == "" {
			return MapCommand{}, errors.New("missing time bounds")
		}
		return newCommand(CommandApplyTimeFilter, ApplyTimeFilterPayload{Start: ac.Start, End: ac.End})
	default:
		return MapCommand{}, fmt.Errorf("not in the supported command set")
	}
}

// Fallback is the canned reply used when the model is unreachable or
// not configured. It references the already-computed basic counts so
// the user still gets something grounded in their data.
func Fallback(a analytics.Analysis) Reply {
	msg := fmt.Sprintf(
		"The assistant is unavailable right now. Current data: %d readings from %d stations, overall risk %s (exceedance rate %.1f%%), %d anomalies flagged.",
		a.TotalReadings, a.StationCount, a.Risk.OverallRisk, a.Risk.ExceedanceRate, len(a.Anomalies))
	return Reply{
		Message:     msg,
		MapCommands: make([]MapCommand, 0),
	}
}
