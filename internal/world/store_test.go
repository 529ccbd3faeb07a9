package world

import "testing"

func TestSetBlock_LastWriteWinsAndIdempotent(t *testing.T) {
	s := NewStore()
	pos := Vec3i{X: 3, Y: 64, Z: -2}

	s.SetBlock(pos, "STONE")
	s.SetBlock(pos, "DIRT")
	if got := s.BlockAt(pos); got != "DIRT" {
		t.Fatalf("last write must win, got %q", got)
	}

	// Applying the same change twice leaves the store identical.
	s.SetBlock(pos, BlockAir)
	s.SetBlock(pos, BlockAir)
	if got := s.BlockAt(pos); got != BlockAir {
		t.Fatalf("expected air, got %q", got)
	}
	if n := s.BlockCount(); n != 0 {
		t.Fatalf("air must clear the cell, %d cells left", n)
	}
}

func TestEntityLifecycle_NoStaleReferences(t *testing.T) {
	s := NewStore()
	s.ApplyEntitySpawn(7, "ZOMBIE", Vec3{X: 1}, Vec3{}, nil)

	if _, ok := s.Entity(7); !ok {
		t.Fatalf("spawned entity missing")
	}
	s.ApplyEntityMove(7, Vec3{X: 2}, Vec3{})
	e, _ := s.Entity(7)
	if e.Pos.X != 2 {
		t.Fatalf("move not applied: %+v", e.Pos)
	}

	s.ApplyEntityDestroy(7)
	if _, ok := s.Entity(7); ok {
		t.Fatalf("destroyed id must not resolve")
	}

	// Id reuse after destroy resolves the new entity only.
	s.ApplyEntitySpawn(7, "COW", Vec3{X: 9}, Vec3{}, nil)
	e, ok := s.Entity(7)
	if !ok || e.Type != "COW" || e.Pos.X != 9 {
		t.Fatalf("reused id resolved stale state: %+v", e)
	}
}

func TestEntityMove_UnknownIDIgnored(t *testing.T) {
	s := NewStore()
	s.ApplyEntityMove(99, Vec3{X: 5}, Vec3{})
	if n := s.EntityCount(); n != 0 {
		t.Fatalf("move must not create entities, have %d", n)
	}
}

func TestCountItem_SumsInventorySlots(t *testing.T) {
	s := NewStore()
	s.SetWindowSlot(InventoryWindow, 0, ItemStack{Item: "PLANK", Count: 3})
	s.SetWindowSlot(InventoryWindow, 5, ItemStack{Item: "PLANK", Count: 2})
	s.SetWindowSlot(InventoryWindow, 6, ItemStack{Item: "COAL", Count: 4})
	if n := s.CountItem("PLANK"); n != 5 {
		t.Fatalf("want 5 planks, got %d", n)
	}

	// Emptied slot stops counting.
	s.SetWindowSlot(InventoryWindow, 5, ItemStack{})
	if n := s.CountItem("PLANK"); n != 3 {
		t.Fatalf("want 3 planks after clear, got %d", n)
	}
}

func TestWindows_OpenSetClose(t *testing.T) {
	s := NewStore()
	s.OpenWindow(2, "CRAFTING_TABLE")
	s.SetWindowSlot(2, 0, ItemStack{Item: "STICK", Count: 4})
	if kind, ok := s.WindowOpenKind(2); !ok || kind != "CRAFTING_TABLE" {
		t.Fatalf("window not open: %q %v", kind, ok)
	}
	s.CloseWindow(2)
	if _, ok := s.WindowOpenKind(2); ok {
		t.Fatalf("window still open after close")
	}
	// Inventory window cannot be closed.
	s.CloseWindow(InventoryWindow)
	if _, ok := s.WindowOpenKind(InventoryWindow); !ok {
		t.Fatalf("inventory window must stay open")
	}
}
