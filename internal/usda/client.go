// Package usda looks up per-100g macros in the FoodData Central search API.
package usda

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"macro-meter/internal/models"
)

const DefaultBaseURL = "https://api.nal.usda.gov/fdc/v1/foods/search"

var ErrNotFound = errors.New("no matching food")

// Nutrition is one food's macros per 100g.
type Nutrition struct {
	Query       string  `json:"query"`
	Description string  `json:"description"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein_g"`
	Carbs       float64 `json:"carbs_g"`
	Fat         float64 `json:"fat_g"`
}

// ToMealInput scales the per-100g values to a portion of weightGrams.
func (n *Nutrition) ToMealInput(weightGrams float64) models.MealInput {
	f := weightGrams / 100
	return models.MealInput{
		FoodName: n.Description,
		Weight:   models.Grams(weightGrams),
		Calories: models.Kcal(roundTenth(n.Calories * f)),
		Protein:  models.Grams(roundTenth(n.Protein * f)),
		Carbs:    models.Grams(roundTenth(n.Carbs * f)),
		Fats:     models.Grams(roundTenth(n.Fat * f)),
	}
}

type Config struct {
	APIKey      string
	BaseURL     string
	MaxAttempts int
	Delay       time.Duration
}

type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	maxAttempts int
	delay       time.Duration
	logger      *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 8
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		maxAttempts: cfg.MaxAttempts,
		delay:       cfg.Delay,
		logger:      logger,
	}
}

// Lookup tries name and a handful of spelling variants until one returns
// a food. Request errors on one variant do not stop the search.
func (c *Client) Lookup(ctx context.Context, name string) (*Nutrition, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("food name is required")
	}

	for i, variant := range QueryVariants(name) {
		if i >= c.maxAttempts {
			break
		}
		if i > 0 && c.delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.delay):
			}
		}

		body, err := c.search(ctx, variant)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warn("usda search failed", zap.String("query", variant), zap.Error(err))
			continue
		}

		food := gjson.GetBytes(body, "foods.0")
		if !food.Exists() {
			c.logger.Debug("no usda match", zap.String("query", variant))
			continue
		}

		n := parseFood(food)
		n.Query = variant
		c.logger.Info("usda match", zap.String("query", variant), zap.String("description", n.Description))
		return n, nil
	}

	return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
}

func (c *Client) search(ctx context.Context, query string) ([]byte, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("pageSize", "1")
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("unexpected response format")
	}
	return body, nil
}

func parseFood(food gjson.Result) *Nutrition {
	n := &Nutrition{
		Description: food.Get("description").String(),
	}
	if n.Description == "" {
		n.Description = "Unknown Description"
	}

	food.Get("foodNutrients").ForEach(func(_, nutrient gjson.Result) bool {
		name := strings.ToLower(nutrient.Get("nutrientName").String())
		value := nutrient.Get("value").Float()
		unit := nutrient.Get("unitName").String()

		switch {
		case strings.Contains(name, "energy") && strings.EqualFold(unit, "KCAL"):
			n.Calories = value
		case strings.Contains(name, "protein"):
			n.Protein = value
		case strings.Contains(name, "carbohydrate"):
			n.Carbs = value
		case strings.Contains(name, "total lipid"), strings.Contains(name, "total fat"):
			n.Fat = value
		}
		return true
	})
	return n
}

// QueryVariants lists the spellings tried for a food name, without
// duplicates and in a fixed order.
func QueryVariants(name string) []string {
	candidates := []string{
		name,
		strings.ToLower(name),
		capitalize(name),
		name + "s",
		name + "es",
		strings.ReplaceAll(name, " ", ""),
		"fresh " + name,
		"cooked " + name,
	}

	seen := make(map[string]bool, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, v := range candidates {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
