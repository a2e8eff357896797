package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/canopyworks/arborcost/internal/model"
	"github.com/canopyworks/arborcost/internal/pricing"
)

type memoryPersister[T Record] struct {
	saved   []T
	saves   int
	failing bool
}

func (m *memoryPersister[T]) LoadAll(context.Context) ([]T, error) {
	return append([]T(nil), m.saved...), nil
}

func (m *memoryPersister[T]) SaveAll(_ context.Context, records []T) error {
	if m.failing {
		return errors.New("disk full")
	}
	m.saves++
	m.saved = append([]T(nil), records...)
	return nil
}

func testEquipment(name string) model.Equipment {
	e, _ := pricing.NewEquipmentFromTemplate(model.EquipmentChipper, name)
	return e
}

func TestStoreCreateUpdateDeleteRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := &memoryPersister[model.Equipment]{}
	store := NewEquipment(p)

	first := testEquipment("Chipper A")
	second := testEquipment("Chipper B")
	if err := store.Create(ctx, first); err != nil {
		t.Fatalf("create first: %v", err)
	}
	if err := store.Create(ctx, second); err != nil {
		t.Fatalf("create second: %v", err)
	}

	first.PurchasePrice = 60000
	if err := store.Update(ctx, first); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := store.Delete(ctx, second.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	reloaded := NewEquipment(p)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	items := reloaded.List()
	if len(items) != 1 {
		t.Fatalf("expected 1 record after reload, got %d", len(items))
	}
	if items[0].ID != first.ID || items[0].PurchasePrice != 60000 {
		t.Fatalf("unexpected reloaded record: %+v", items[0])
	}
	if p.saves != 4 {
		t.Fatalf("expected 4 whole-collection saves, got %d", p.saves)
	}
}

func TestStoreRejectsInvalidEquipmentHours(t *testing.T) {
	store := NewEquipment(nil)

	e := testEquipment("Broken")
	e.AnnualHours = 0
	err := store.Create(context.Background(), e)
	if !errors.Is(err, pricing.ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
	if len(store.List()) != 0 {
		t.Fatalf("invalid record must not be stored")
	}
}

func TestStoreFailedSaveLeavesCollectionUnchanged(t *testing.T) {
	ctx := context.Background()
	p := &memoryPersister[model.Equipment]{}
	store := NewEquipment(p)

	original := testEquipment("Chipper")
	if err := store.Create(ctx, original); err != nil {
		t.Fatalf("create: %v", err)
	}

	p.failing = true

	changed := original
	changed.PurchasePrice = 1
	if err := store.Update(ctx, changed); err == nil {
		t.Fatalf("expected update to fail")
	}
	if err := store.Create(ctx, testEquipment("Other")); err == nil {
		t.Fatalf("expected create to fail")
	}
	if err := store.Delete(ctx, original.ID); err == nil {
		t.Fatalf("expected delete to fail")
	}

	items := store.List()
	if len(items) != 1 || items[0].PurchasePrice != original.PurchasePrice {
		t.Fatalf("collection changed after failed saves: %+v", items)
	}
}

func TestStoreErrors(t *testing.T) {
	ctx := context.Background()
	store := NewEmployees(nil)

	e := model.Employee{ID: uuid.New(), FirstName: "Lee", Position: model.PositionClimber, BaseHourlyRate: 25}
	if err := store.Create(ctx, e); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Create(ctx, e); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if err := store.Delete(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	missing := e
	missing.ID = uuid.New()
	if err := store.Update(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}

	noID := e
	noID.ID = uuid.Nil
	if err := store.Create(ctx, noID); !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}

	bad := model.Employee{ID: uuid.New(), FirstName: "Kim", Position: "astronaut"}
	if err := store.Create(ctx, bad); !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord for unknown position, got %v", err)
	}
}

func TestStoreNotifiesSubscribersOnlyOnSuccess(t *testing.T) {
	ctx := context.Background()
	p := &memoryPersister[model.Equipment]{}
	store := NewEquipment(p)

	calls := 0
	store.Subscribe(func() { calls++ })

	e := testEquipment("Chipper")
	if err := store.Create(ctx, e); err != nil {
		t.Fatalf("create: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 notification, got %d", calls)
	}

	p.failing = true
	_ = store.Delete(ctx, e.ID)
	if calls != 1 {
		t.Fatalf("failed save must not notify, got %d calls", calls)
	}
}

func TestDeletingEquipmentKeepsLoadouts(t *testing.T) {
	ctx := context.Background()
	equipment := NewEquipment(nil)
	loadouts := NewLoadouts(nil)

	e := testEquipment("Chipper")
	if err := equipment.Create(ctx, e); err != nil {
		t.Fatalf("create equipment: %v", err)
	}
	l := model.Loadout{
		ID:        uuid.New(),
		Name:      "Removal crew",
		Equipment: []model.LoadoutEquipment{{EquipmentID: e.ID, UtilizationPercent: 50}},
	}
	if err := loadouts.Create(ctx, l); err != nil {
		t.Fatalf("create loadout: %v", err)
	}

	if err := equipment.Delete(ctx, e.ID); err != nil {
		t.Fatalf("delete equipment: %v", err)
	}

	got, ok := loadouts.Get(l.ID)
	if !ok || len(got.Equipment) != 1 || got.Equipment[0].EquipmentID != e.ID {
		t.Fatalf("loadout changed after equipment delete: %+v", got)
	}
}
