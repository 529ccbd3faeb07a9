package catalogs

import "testing"

func load(t *testing.T) *Catalogs {
	t.Helper()
	c, err := Load("../../configs")
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	return c
}

func TestDigTicks_ToolSpeedsUpMatchingFamily(t *testing.T) {
	c := load(t)

	bare, ok := c.DigTicks("STONE", "", 20)
	if !ok {
		t.Fatalf("stone must be breakable")
	}
	pick, ok := c.DigTicks("STONE", "STONE_PICKAXE", 20)
	if !ok {
		t.Fatalf("stone must be breakable with pickaxe")
	}
	if pick >= bare {
		t.Fatalf("pickaxe must be faster: bare=%d pick=%d", bare, pick)
	}

	// Wrong family gives no speedup.
	axe, _ := c.DigTicks("STONE", "WOOD_AXE", 20)
	if axe != bare {
		t.Fatalf("axe on stone must dig at bare speed: %d vs %d", axe, bare)
	}
}

func TestDigTicks_UnbreakableAndUnknown(t *testing.T) {
	c := load(t)
	if _, ok := c.DigTicks("BEDROCK", "IRON_PICKAXE", 20); ok {
		t.Fatalf("bedrock must not be diggable")
	}
	if _, ok := c.DigTicks("NOT_A_BLOCK", "", 20); ok {
		t.Fatalf("unknown block must not be diggable")
	}
}

func TestLookup_RecipeByResult(t *testing.T) {
	c := load(t)
	r, ok := c.Lookup("STICK")
	if !ok {
		t.Fatalf("stick recipe missing")
	}
	if len(r.Inputs) != 1 || r.Inputs[0].Item != "PLANK" {
		t.Fatalf("unexpected stick inputs: %+v", r.Inputs)
	}
	if r.Station != "" {
		t.Fatalf("stick must be a hand craft, station=%q", r.Station)
	}

	pick, ok := c.Lookup("WOOD_PICKAXE")
	if !ok || pick.Station != "CRAFTING_TABLE" {
		t.Fatalf("pickaxe must require a crafting table: %+v", pick)
	}

	if _, ok := c.Lookup("UNOBTAINIUM"); ok {
		t.Fatalf("unknown item must have no recipe")
	}
}

func TestLoad_DigestsPopulated(t *testing.T) {
	c := load(t)
	if c.Blocks.Digest == "" || c.Tools.Digest == "" || c.Recipes.Digest == "" {
		t.Fatalf("digests must be set: %+v %+v %+v", c.Blocks.Digest, c.Tools.Digest, c.Recipes.Digest)
	}
}
