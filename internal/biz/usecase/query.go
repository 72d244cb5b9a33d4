package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/domain"
	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/repo"
)

// QueryParserConfig holds the product query parsing prompt
type QueryParserConfig struct {
	SystemPrompt string
	// UserPrompt wraps the raw query; nil sends it unchanged
	UserPrompt func(query string) string
}

// QueryParserUsecase turns a free-text product query into search params
type QueryParserUsecase struct {
	llm    repo.LanguageModel
	cfg    QueryParserConfig
	logger *zap.Logger
}

// NewQueryParserUsecase creates a new query parser usecase
func NewQueryParserUsecase(llm repo.LanguageModel, cfg QueryParserConfig, logger *zap.Logger) *QueryParserUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryParserUsecase{llm: llm, cfg: cfg, logger: logger.Named("query_parser")}
}

type parsedQuery struct {
	SearchParameters map[string]any `json:"search_parameters"`
	SortParameters   *struct {
		Field string `json:"field"`
		Order string `json:"order"`
	} `json:"sort_parameters"`
}

// Parse asks the model for structured params.
// On any failure it falls back to a plain text query.
func (uc *QueryParserUsecase) Parse(ctx context.Context, query string) domain.SearchParams {
	params, err := uc.parse(ctx, query)
	if err != nil {
		uc.logger.Warn("query parsing failed, using text search", zap.Error(err))
		return domain.SearchParams{Query: query, Page: 1, PageSize: domain.DefaultPageSize}
	}
	return params
}

func (uc *QueryParserUsecase) parse(ctx context.Context, query string) (domain.SearchParams, error) {
	if uc.llm == nil {
		return domain.SearchParams{}, errors.New("no language model configured")
	}

	user := query
	if uc.cfg.UserPrompt != nil {
		user = uc.cfg.UserPrompt(query)
	}
	raw, err := uc.llm.Complete(ctx, domain.CompletionRequest{
		Messages:    domain.Prompt(uc.cfg.SystemPrompt, user),
		Temperature: 0,
		MaxTokens:   500,
	})
	if err != nil {
		return domain.SearchParams{}, err
	}
	if strings.TrimSpace(raw) == "" {
		return domain.SearchParams{}, errors.New("empty response from model")
	}

	var parsed parsedQuery
	if err := json.Unmarshal([]byte(StripCodeFence(raw)), &parsed); err != nil {
		return domain.SearchParams{}, fmt.Errorf("invalid JSON reply: %w", err)
	}

	params := ParamsFromParsed(parsed.SearchParameters)
	if params.Query == "" {
		params.Query = query
	}
	if parsed.SortParameters != nil {
		params.SortField = parsed.SortParameters.Field
		params.SortOrder = parsed.SortParameters.Order
	}
	return params, nil
}

// ParamsFromParsed converts the model's search_parameters object.
// price may be a plain number, {operator, value} or {min, max}.
func ParamsFromParsed(p map[string]any) domain.SearchParams {
	params := domain.SearchParams{Page: 1, PageSize: domain.DefaultPageSize}
	if p == nil {
		return params
	}

	params.Query = firstString(p, "query", "title")
	params.Category = firstString(p, "category")
	params.Color = firstString(p, "color_code", "color")
	params.Status = firstString(p, "status")

	if specs, ok := p["specifications"].(map[string]any); ok && len(specs) > 0 {
		params.Specifications = make(map[string]string, len(specs))
		for k, v := range specs {
			params.Specifications[k] = fmt.Sprint(v)
		}
	}

	params.PriceRange = priceRange(p["price"])
	return params
}

func priceRange(v any) *domain.PriceRange {
	switch price := v.(type) {
	case nil:
		return nil
	case map[string]any:
		op, _ := price["operator"].(string)
		value, hasValue := toFloat(price["value"])
		lo, hasMin := toFloat(price["min"])
		hi, hasMax := toFloat(price["max"])

		r := &domain.PriceRange{}
		switch strings.TrimSpace(strings.ToLower(op)) {
		case "<", "<=":
			if hasValue {
				r.Max = &value
			}
		case ">", ">=":
			if hasValue {
				r.Min = &value
			}
		case "=", "==":
			if hasValue {
				r.Min, r.Max = &value, &value
			}
		default: // "between" or no operator
			if hasMin {
				r.Min = &lo
			}
			if hasMax {
				r.Max = &hi
			}
			if !hasMin && !hasMax && hasValue {
				r.Min, r.Max = &value, &value
			}
		}
		if r.Min == nil && r.Max == nil {
			return nil
		}
		return r
	default:
		value, ok := toFloat(price)
		if !ok {
			return nil
		}
		return &domain.PriceRange{Min: &value, Max: &value}
	}
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// toFloat accepts JSON numbers and numeric strings
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(n), ",", ""), 64)
		return f, err == nil
	}
	return 0, false
}
