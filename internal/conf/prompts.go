package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// PromptsConfig contains all prompt configurations loaded from YAML
type PromptsConfig struct {
	Company      CompanyConfig       `yaml:"company"`
	Classifier   ClassifierPrompts   `yaml:"classifier"`
	Assistant    AssistantPrompts    `yaml:"assistant"`
	SearchParser SearchParserPrompts `yaml:"search_parser"`
}

// CompanyConfig names the persona the bot speaks for
type CompanyConfig struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

// ClassifierPrompts contains the intent classification prompt
type ClassifierPrompts struct {
	SystemPrompt string  `yaml:"system_prompt"`
	Temperature  float32 `yaml:"temperature"`
	MaxTokens    int     `yaml:"max_tokens"`
}

// AssistantPrompts contains the small-talk persona prompt
type AssistantPrompts struct {
	SystemPrompt  string `yaml:"system_prompt"`
	FallbackReply string `yaml:"fallback_reply"`
	MaxTokens     int    `yaml:"max_tokens"`
}

// SearchParserPrompts contains the product query parsing prompt
type SearchParserPrompts struct {
	SystemPrompt string `yaml:"system_prompt"`
	UserTemplate string `yaml:"user_template"`
}

// LoadPromptsConfig loads prompts configuration from YAML file
func LoadPromptsConfig(configPath string) (*PromptsConfig, string, error) {
	paths := []string{configPath}
	if configPath == "" {
		paths = []string{
			"configs/prompts.yaml",
			"/etc/zalo-inventory-bot/prompts.yaml",
		}
		if execPath, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Join(filepath.Dir(execPath), "configs", "prompts.yaml"))
		}
	}

	var data []byte
	var loadedPath string
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err == nil {
			data = b
			loadedPath = p
			break
		}
	}

	if data == nil {
		if configPath != "" {
			return nil, "", fmt.Errorf("failed to read prompts file %s", configPath)
		}
		return DefaultPromptsConfig(), "", nil
	}

	var config PromptsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, loadedPath, fmt.Errorf("failed to parse %s: %w", loadedPath, err)
	}

	config.fillDefaults()

	return &config, loadedPath, nil
}

// fillDefaults fills in default values for empty fields
func (c *PromptsConfig) fillDefaults() {
	defaults := DefaultPromptsConfig()

	if c.Company.Name == "" {
		c.Company.Name = defaults.Company.Name
	}
	if len(c.Company.Aliases) == 0 {
		c.Company.Aliases = defaults.Company.Aliases
	}

	if c.Classifier.SystemPrompt == "" {
		c.Classifier.SystemPrompt = defaults.Classifier.SystemPrompt
	}
	if c.Classifier.Temperature == 0 {
		c.Classifier.Temperature = defaults.Classifier.Temperature
	}
	if c.Classifier.MaxTokens == 0 {
		c.Classifier.MaxTokens = defaults.Classifier.MaxTokens
	}

	if c.Assistant.SystemPrompt == "" {
		c.Assistant.SystemPrompt = defaults.Assistant.SystemPrompt
	}
	if c.Assistant.FallbackReply == "" {
		c.Assistant.FallbackReply = defaults.Assistant.FallbackReply
	}
	if c.Assistant.MaxTokens == 0 {
		c.Assistant.MaxTokens = defaults.Assistant.MaxTokens
	}

	if c.SearchParser.SystemPrompt == "" {
		c.SearchParser.SystemPrompt = defaults.SearchParser.SystemPrompt
	}
	if c.SearchParser.UserTemplate == "" {
		c.SearchParser.UserTemplate = defaults.SearchParser.UserTemplate
	}
}

// render substitutes the company placeholders
func (c *PromptsConfig) render(tmpl string) string {
	quoted := make([]string, 0, len(c.Company.Aliases))
	for _, a := range c.Company.Aliases {
		quoted = append(quoted, fmt.Sprintf("%q", a))
	}
	result := strings.ReplaceAll(tmpl, "{{company}}", c.Company.Name)
	result = strings.ReplaceAll(result, "{{aliases}}", strings.Join(quoted, ", "))
	return strings.TrimSpace(result)
}

// ClassifierSystemPrompt returns the rendered intent classification prompt
func (c *PromptsConfig) ClassifierSystemPrompt() string {
	return c.render(c.Classifier.SystemPrompt)
}

// AssistantSystemPrompt returns the rendered persona prompt
func (c *PromptsConfig) AssistantSystemPrompt() string {
	return c.render(c.Assistant.SystemPrompt)
}

// SearchParserSystemPrompt returns the rendered query parsing prompt
func (c *PromptsConfig) SearchParserSystemPrompt() string {
	return c.render(c.SearchParser.SystemPrompt)
}

// SearchParserUserPrompt wraps the customer query
func (c *PromptsConfig) SearchParserUserPrompt(query string) string {
	return strings.ReplaceAll(c.SearchParser.UserTemplate, "{{query}}", query)
}

// DefaultPromptsConfig returns the default prompts configuration
func DefaultPromptsConfig() *PromptsConfig {
	return &PromptsConfig{
		Company: CompanyConfig{
			Name:    "Trident Digital",
			Aliases: []string{"ad", "admin", "ác min", "bot", "Trident"},
		},
		Classifier: ClassifierPrompts{
			SystemPrompt: `You are a Vietnamese AI assistant helping the company "{{company}}" with inventory management.
Classify the user's message into exactly one of these intents:
- CHECK_STOCK_LEVELS: asking how many units are left, whether something is in stock
- CREATE_RECEIPT: creating a receipt or invoice
- UPDATE_STOCK_QUANTITIES: changing stock counts (nhập kho, xuất kho)
- ADD_NEW_ITEMS: adding new products
- UPDATE_ITEM: changing details of an existing product
- SEARCH_PRODUCTS: looking for products by description, category, color, price
- NORMAL_CONVERSATION: greetings, small talk, anything else

You may be called as [{{aliases}}].

Identifier rules:
- sku always starts with "PNT" (example: PNT-0001)
- barcode always starts with "BAR"

Parameters you may return: sku, skus (list), barcode, barcodes (list), product_name, query,
quantity, price, category, color_code.

Return ONLY a JSON object of the form:
{"intent": "<one of the labels above>", "parameters": {...}}`,
			Temperature: 0.7,
			MaxTokens:   2000,
		},
		Assistant: AssistantPrompts{
			SystemPrompt: `You are a friendly Vietnamese AI assistant for the company {{company}}.
Keep responses natural, helpful and concise (under 100 words).
You may be called as {{aliases}}.
Respond in Vietnamese with a friendly, professional tone.`,
			FallbackReply: "Xin lỗi, hiện tại mình chưa thể trả lời. Bạn vui lòng thử lại sau nhé!",
			MaxTokens:     400,
		},
		SearchParser: SearchParserPrompts{
			SystemPrompt: `You are an AI assistant for {{company}}, a paint manufacturing company. Analyze Vietnamese customer queries about paint products and extract search parameters.

Return ONLY a valid JSON object with the structure of the example. No other text.

Available fields:
- title: Tên sản phẩm
- sku: Mã sản phẩm (PNT-XXXX)
- category: Loại sơn (Sơn Nội Thất, Sơn Ngoại Thất, Sơn Lót, Sơn Đặc Biệt)
- price: Giá (VNĐ)
- color_code: Mã màu hoặc tên màu
- specifications:
    - finish: Bề mặt (Mờ, Mịn, Bóng Mờ, Bóng)
    - coverage: Độ phủ
    - dry_time: Thời gian khô
    - base_type: Loại gốc (Gốc Nước, Gốc Dầu)
- status: Trạng thái

Price rules:
- Convert word numbers to numeric values ("bốn trăm nghìn" -> 400000, 400k -> 400000, 4tr -> 4000000)
- Ranges: "từ 200 đến 500k" -> {"operator": "between", "min": 200000, "max": 500000}
- Comparisons: "dưới 400k" -> {"operator": "<", "value": 400000}

Example query: "tìm sơn ngoại thất màu kem giá dưới 400 nghìn bề mặt bóng và gốc nước"
Example output:
{
  "search_parameters": {
    "title": "sơn ngoại thất",
    "category": "Sơn Ngoại Thất",
    "color_code": "kem",
    "price": {"operator": "<", "value": 400000},
    "specifications": {"finish": "bóng", "base_type": "Gốc Nước"}
  },
  "sort_parameters": {"field": "price", "order": "asc"}
}`,
			UserTemplate: `Parse this Vietnamese query into the JSON format of the example. Query: "{{query}}"

Return ONLY the JSON object.`,
		},
	}
}
