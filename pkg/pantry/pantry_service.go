package pantry

import (
	"Pantry-Planner/domain"
	"Pantry-Planner/entities"
	"Pantry-Planner/internal/utils"
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

type (
	PantryService interface {
		Load(ctx context.Context) error
		AddIngredient(ctx context.Context, req domain.AddIngredientRequest) (domain.IngredientResponse, error)
		GetIngredients(ctx context.Context) []domain.IngredientResponse
		GetIngredient(ctx context.Context, name string) (domain.IngredientResponse, error)
		AdjustQuantity(ctx context.Context, name string, delta float64) (domain.IngredientResponse, error)
		RemoveIngredient(ctx context.Context, name string) error
		ApplyPurchase(ctx context.Context, year, week int, rows []domain.PurchaseRow) (domain.PurchaseResponse, error)
		Scan(ctx context.Context) domain.ScanResponse
		Snapshot() []domain.IngredientRecord
	}

	pantryService struct {
		store            *Store
		pantryRepository PantryRepository
		now              func() time.Time
	}
)

func NewPantryService(store *Store, pantryRepository PantryRepository) PantryService {
	return &pantryService{
		store:            store,
		pantryRepository: pantryRepository,
		now:              time.Now,
	}
}

// Load restores persisted stock into the store. No alerts are raised.
func (s *pantryService) Load(ctx context.Context) error {
	rows, err := s.pantryRepository.GetAll(ctx)
	if err != nil {
		return err
	}
	records := make([]domain.IngredientRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, fromEntity(row))
	}
	s.store.Restore(records)
	log.Infow("pantry loaded", "ingredients", len(records))
	return nil
}

func (s *pantryService) AddIngredient(ctx context.Context, req domain.AddIngredientRequest) (domain.IngredientResponse, error) {
	expiry, err := parseExpiry(req.ExpiryDate)
	if err != nil {
		return domain.IngredientResponse{}, err
	}

	rec, err := s.store.Add(ctx, domain.IngredientRecord{
		Name:       req.Name,
		Unit:       req.Unit,
		Quantity:   req.Quantity,
		ExpiryDate: expiry,
		Tags:       req.Tags,
	})
	if err != nil {
		return domain.IngredientResponse{}, err
	}

	if err := s.persist(ctx, rec); err != nil {
		s.store.reset(rec.Name, domain.IngredientRecord{}, false)
		return domain.IngredientResponse{}, err
	}
	return toResponse(rec), nil
}

func (s *pantryService) GetIngredients(ctx context.Context) []domain.IngredientResponse {
	records := s.store.Snapshot()
	response := make([]domain.IngredientResponse, 0, len(records))
	for _, rec := range records {
		response = append(response, toResponse(rec))
	}
	return response
}

func (s *pantryService) GetIngredient(ctx context.Context, name string) (domain.IngredientResponse, error) {
	rec, ok := s.store.Get(name)
	if !ok {
		return domain.IngredientResponse{}, domain.ErrIngredientNotFound
	}
	return toResponse(rec), nil
}

func (s *pantryService) AdjustQuantity(ctx context.Context, name string, delta float64) (domain.IngredientResponse, error) {
	prev, _ := s.store.Get(name)
	rec, err := s.store.UpdateQuantity(ctx, name, delta)
	if err != nil {
		return domain.IngredientResponse{}, err
	}
	if rec.Clamped {
		log.Warnw("ingredient quantity clamped at zero", "name", rec.Name, "delta", delta)
	}

	if err := s.persist(ctx, rec); err != nil {
		s.store.reset(rec.Name, prev, true)
		return domain.IngredientResponse{}, err
	}
	return toResponse(rec), nil
}

func (s *pantryService) RemoveIngredient(ctx context.Context, name string) error {
	rec, err := s.store.Remove(ctx, name)
	if err != nil {
		return err
	}
	return s.pantryRepository.DeleteByKey(ctx, utils.NormalizeName(rec.Name))
}

// ApplyPurchase merges purchased rows into the pantry by canonical key and
// unit and records the purchase. Units are checked for every row, against the
// store and against each other, before any stock changes. A failed write
// undoes the rows already applied.
func (s *pantryService) ApplyPurchase(ctx context.Context, year, week int, rows []domain.PurchaseRow) (domain.PurchaseResponse, error) {
	records := make([]domain.IngredientRecord, 0, len(rows))
	units := make(map[string]string, len(rows))
	for _, row := range rows {
		if row.Quantity <= 0 {
			return domain.PurchaseResponse{}, fmt.Errorf("%s: %w", row.Name, domain.ErrInvalidQuantity)
		}
		expiry, err := parseExpiry(row.ExpiryDate)
		if err != nil {
			return domain.PurchaseResponse{}, fmt.Errorf("%s: %w", row.Name, err)
		}
		key := utils.NormalizeName(row.Name)
		if existing, ok := s.store.Get(row.Name); ok && existing.Unit != row.Unit {
			return domain.PurchaseResponse{}, fmt.Errorf("%s: %w", row.Name, domain.ErrUnitMismatch)
		}
		if unit, seen := units[key]; seen && unit != row.Unit {
			return domain.PurchaseResponse{}, fmt.Errorf("%s: %w", row.Name, domain.ErrUnitMismatch)
		}
		units[key] = row.Unit
		records = append(records, domain.IngredientRecord{
			Name:       row.Name,
			Unit:       row.Unit,
			Quantity:   row.Quantity,
			ExpiryDate: expiry,
		})
	}

	purchase := &entities.Purchase{
		ID:          uuid.New(),
		Year:        year,
		Week:        week,
		PurchasedAt: s.now(),
	}
	var applied []undoEntry
	updated := make([]domain.IngredientRecord, 0, len(records))
	for _, rec := range records {
		prev, existed := s.store.Get(rec.Name)
		merged, _, err := s.store.Restock(ctx, rec)
		if err != nil {
			s.undo(ctx, applied)
			return domain.PurchaseResponse{}, fmt.Errorf("%s: %w", rec.Name, err)
		}
		applied = append(applied, undoEntry{name: rec.Name, prev: prev, existed: existed})
		if err := s.persist(ctx, merged); err != nil {
			s.undo(ctx, applied)
			return domain.PurchaseResponse{}, err
		}
		updated = append(updated, merged)
		purchase.Items = append(purchase.Items, entities.PurchaseItem{
			Key:      utils.NormalizeName(rec.Name),
			Name:     rec.Name,
			Unit:     rec.Unit,
			Quantity: rec.Quantity,
		})
	}

	if err := s.pantryRepository.CreatePurchase(ctx, purchase); err != nil {
		s.undo(ctx, applied)
		return domain.PurchaseResponse{}, err
	}

	return domain.PurchaseResponse{
		PurchaseID: purchase.ID.String(),
		Items:      updated,
	}, nil
}

type undoEntry struct {
	name    string
	prev    domain.IngredientRecord
	existed bool
}

// undo restores the store and the stored rows in reverse order. Write errors
// are logged, the store is always restored.
func (s *pantryService) undo(ctx context.Context, applied []undoEntry) {
	for i := len(applied) - 1; i >= 0; i-- {
		entry := applied[i]
		s.store.reset(entry.name, entry.prev, entry.existed)

		var err error
		if entry.existed {
			err = s.pantryRepository.Save(ctx, toEntity(entry.prev))
		} else {
			err = s.pantryRepository.DeleteByKey(ctx, utils.NormalizeName(entry.name))
		}
		if err != nil {
			log.Errorw("undoing purchase row", "name", entry.name, "error", err)
		}
	}
}

func (s *pantryService) Scan(ctx context.Context) domain.ScanResponse {
	response := domain.ScanResponse{Expiring: []domain.Event{}, Alerts: []domain.Event{}}
	for _, ev := range s.store.ScanAndNotify(ctx) {
		if ev.Kind == domain.EventExpiringSnapshot {
			response.Expiring = append(response.Expiring, ev)
			continue
		}
		response.Alerts = append(response.Alerts, ev)
	}
	return response
}

func (s *pantryService) Snapshot() []domain.IngredientRecord {
	return s.store.Snapshot()
}

func (s *pantryService) persist(ctx context.Context, rec domain.IngredientRecord) error {
	if err := s.pantryRepository.Save(ctx, toEntity(rec)); err != nil {
		log.Errorw("persisting ingredient", "name", rec.Name, "error", err)
		return err
	}
	return nil
}

func parseExpiry(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	expiry, err := time.Parse(domain.DateLayout, raw)
	if err != nil {
		return nil, domain.ErrInvalidExpiryDate
	}
	return &expiry, nil
}

func toEntity(rec domain.IngredientRecord) *entities.Ingredient {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		id = uuid.Nil
	}
	return &entities.Ingredient{
		ID:         id,
		Key:        utils.NormalizeName(rec.Name),
		Name:       rec.Name,
		Unit:       rec.Unit,
		Quantity:   rec.Quantity,
		ExpiryDate: rec.ExpiryDate,
		Tags:       entities.JoinTags(rec.Tags),
		Clamped:    rec.Clamped,
	}
}

func fromEntity(row *entities.Ingredient) domain.IngredientRecord {
	return domain.IngredientRecord{
		ID:         row.ID.String(),
		Name:       row.Name,
		Unit:       row.Unit,
		Quantity:   row.Quantity,
		ExpiryDate: row.ExpiryDate,
		Tags:       row.TagList(),
		Clamped:    row.Clamped,
	}
}

func toResponse(rec domain.IngredientRecord) domain.IngredientResponse {
	return domain.IngredientResponse{
		IngredientRecord: rec,
		Key:              utils.NormalizeName(rec.Name),
	}
}
