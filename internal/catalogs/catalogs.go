package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type Catalogs struct {
	Blocks  BlockCatalog
	Tools   ToolCatalog
	Recipes RecipeCatalog
}

type BlockCatalog struct {
	Defs   map[string]BlockDef
	Digest string
}

type BlockDef struct {
	ID        string  `json:"id"`
	Solid     bool    `json:"solid"`
	Breakable bool    `json:"breakable"`
	Hardness  float64 `json:"hardness"`       // seconds to break bare-handed
	Tool      string  `json:"tool,omitempty"` // preferred tool family, e.g. "PICKAXE"
	DropsItem string  `json:"drops_item,omitempty"`
}

type ToolCatalog struct {
	Defs   map[string]ToolDef
	Digest string
}

type ToolDef struct {
	ID     string  `json:"id"`
	Family string  `json:"family"` // "PICKAXE","AXE","SHOVEL",...
	Speed  float64 `json:"speed"`  // dig speed multiplier against matching blocks
}

type RecipeCatalog struct {
	ByID     map[string]RecipeDef
	ByResult map[string]RecipeDef
	Digest   string
}

type RecipeDef struct {
	RecipeID string      `json:"recipe_id"`
	Station  string      `json:"station,omitempty"` // block id required nearby, "" = hand craft
	Inputs   []ItemCount `json:"inputs"`
	Result   ItemCount   `json:"result"`
}

type ItemCount struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

func Load(configDir string) (*Catalogs, error) {
	var c Catalogs
	if err := loadBlocks(filepath.Join(configDir, "blocks.json"), &c.Blocks); err != nil {
		return nil, err
	}
	if err := loadTools(filepath.Join(configDir, "tools.json"), &c.Tools); err != nil {
		return nil, err
	}
	if err := loadRecipes(filepath.Join(configDir, "recipes.json"), &c.Recipes); err != nil {
		return nil, err
	}
	return &c, nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func loadBlocks(path string, out *BlockCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []BlockDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("blocks.json: %w", err)
	}
	out.Defs = map[string]BlockDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("blocks.json: empty id")
		}
		out.Defs[d.ID] = d
	}
	if _, ok := out.Defs["AIR"]; !ok {
		return fmt.Errorf("blocks.json: missing AIR")
	}
	return nil
}

func loadTools(path string, out *ToolCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []ToolDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("tools.json: %w", err)
	}
	out.Defs = map[string]ToolDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("tools.json: empty id")
		}
		out.Defs[d.ID] = d
	}
	return nil
}

func loadRecipes(path string, out *RecipeCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []RecipeDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("recipes.json: %w", err)
	}
	out.ByID = map[string]RecipeDef{}
	out.ByResult = map[string]RecipeDef{}
	for _, r := range defs {
		if r.RecipeID == "" {
			return fmt.Errorf("recipes.json: empty recipe_id")
		}
		if r.Result.Item == "" || r.Result.Count <= 0 {
			return fmt.Errorf("recipes.json: %s: bad result", r.RecipeID)
		}
		out.ByID[r.RecipeID] = r
		out.ByResult[r.Result.Item] = r
	}
	return nil
}

// DigTicks is the server-rule-derived dig delay for a block with a held
// tool, in ticks. ok is false for unknown or unbreakable blocks.
func (c *Catalogs) DigTicks(blockID, toolID string, tickRateHz int) (int, bool) {
	def, found := c.Blocks.Defs[blockID]
	if !found || !def.Breakable || def.Hardness <= 0 {
		return 0, false
	}
	speed := 1.0
	if tool, found := c.Tools.Defs[toolID]; found && tool.Family == def.Tool && tool.Speed > 0 {
		speed = tool.Speed
	}
	ticks := int(def.Hardness*float64(tickRateHz)/speed + 0.5)
	if ticks < 1 {
		ticks = 1
	}
	return ticks, true
}

// Lookup returns the recipe producing item, if any.
func (c *Catalogs) Lookup(item string) (RecipeDef, bool) {
	r, ok := c.Recipes.ByResult[item]
	return r, ok
}
