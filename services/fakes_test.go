package services

import (
	"context"
	"sort"
	"time"

	"github.com/ringside/fightcard/models"
	"github.com/ringside/fightcard/repositories"
)

// In-memory repository fakes. They mirror the Postgres constraints the
// services rely on (unique bracket numbers, unique seeds, one fight per
// bout) so service behavior can be tested without a database.

type fakeTxManager struct{}

func (fakeTxManager) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

// --- events ---

type fakeEventRepo struct {
	events map[int]*models.Event
	nextID int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[int]*models.Event)}
}

func (r *fakeEventRepo) Create(ctx context.Context, event *models.Event) error {
	r.nextID++
	event.ID = r.nextID
	r.events[event.ID] = event
	return nil
}

func (r *fakeEventRepo) GetByID(ctx context.Context, id int) (*models.Event, error) {
	event, ok := r.events[id]
	if !ok {
		return nil, repositories.ErrEventNotFound
	}
	copied := *event
	return &copied, nil
}

func (r *fakeEventRepo) List(ctx context.Context, filter repositories.ListEventsFilter) ([]models.Event, error) {
	result := make([]models.Event, 0, len(r.events))
	for _, event := range r.events {
		result = append(result, *event)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeEventRepo) Update(ctx context.Context, event *models.Event) error {
	if _, ok := r.events[event.ID]; !ok {
		return repositories.ErrEventNotFound
	}
	r.events[event.ID] = event
	return nil
}

func (r *fakeEventRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if _, ok := r.events[id]; !ok {
		return repositories.ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}

// --- brackets ---

type fakeBracketRepo struct {
	brackets map[int]*models.Bracket
	seeds    map[int][]models.BracketSeed
	nextID   int
}

func newFakeBracketRepo() *fakeBracketRepo {
	return &fakeBracketRepo{
		brackets: make(map[int]*models.Bracket),
		seeds:    make(map[int][]models.BracketSeed),
	}
}

func (r *fakeBracketRepo) Create(ctx context.Context, exec repositories.SQLExecutor, bracket *models.Bracket) error {
	for _, existing := range r.brackets {
		if existing.EventID == bracket.EventID && existing.BracketNumber == bracket.BracketNumber {
			return repositories.ErrBracketNumberConflict
		}
	}
	r.nextID++
	bracket.ID = r.nextID
	copied := *bracket
	r.brackets[bracket.ID] = &copied
	return nil
}

func (r *fakeBracketRepo) GetByID(ctx context.Context, id int) (*models.Bracket, error) {
	bracket, ok := r.brackets[id]
	if !ok {
		return nil, repositories.ErrBracketNotFound
	}
	copied := *bracket
	copied.FighterCount = len(r.seeds[id])
	return &copied, nil
}

func (r *fakeBracketRepo) ListByEvent(ctx context.Context, eventID int) ([]*models.Bracket, error) {
	var result []*models.Bracket
	for _, bracket := range r.brackets {
		if bracket.EventID == eventID {
			copied := *bracket
			copied.FighterCount = len(r.seeds[bracket.ID])
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].BracketNumber < result[j].BracketNumber })
	return result, nil
}

func (r *fakeBracketRepo) ListIDsByEvent(ctx context.Context, exec repositories.SQLExecutor, eventID int) ([]int, error) {
	var ids []int
	for id, bracket := range r.brackets {
		if bracket.EventID == eventID {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func (r *fakeBracketRepo) FindOpenCandidates(ctx context.Context, key repositories.OpenBracketKey) ([]*models.Bracket, error) {
	var result []*models.Bracket
	for _, bracket := range r.brackets {
		if bracket.EventID != key.EventID ||
			bracket.Status != models.BracketOpen ||
			bracket.AgeClass != key.AgeClass ||
			bracket.Sport != key.Sport ||
			bracket.RuleStyle != key.RuleStyle ||
			bracket.BracketCriteria != key.BracketCriteria {
			continue
		}
		count := len(r.seeds[bracket.ID])
		if count >= bracket.MaxCompetitors {
			continue
		}
		copied := *bracket
		copied.FighterCount = count
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].FighterCount != result[j].FighterCount {
			return result[i].FighterCount > result[j].FighterCount
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *fakeBracketRepo) NextBracketNumber(ctx context.Context, exec repositories.SQLExecutor, eventID int) (int, error) {
	max := 0
	for _, bracket := range r.brackets {
		if bracket.EventID == eventID && bracket.BracketNumber > max {
			max = bracket.BracketNumber
		}
	}
	return max + 1, nil
}

func (r *fakeBracketRepo) Update(ctx context.Context, bracket *models.Bracket) error {
	if _, ok := r.brackets[bracket.ID]; !ok {
		return repositories.ErrBracketNotFound
	}
	for _, existing := range r.brackets {
		if existing.ID != bracket.ID && existing.EventID == bracket.EventID &&
			existing.BracketNumber == bracket.BracketNumber {
			return repositories.ErrBracketNumberConflict
		}
	}
	copied := *bracket
	r.brackets[bracket.ID] = &copied
	return nil
}

func (r *fakeBracketRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.BracketStatus) error {
	bracket, ok := r.brackets[id]
	if !ok {
		return repositories.ErrBracketNotFound
	}
	bracket.Status = status
	return nil
}

func (r *fakeBracketRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if _, ok := r.brackets[id]; !ok {
		return repositories.ErrBracketNotFound
	}
	delete(r.brackets, id)
	delete(r.seeds, id)
	return nil
}

func (r *fakeBracketRepo) AssignSeed(ctx context.Context, bracketID, registrationID int) (int, error) {
	bracket, ok := r.brackets[bracketID]
	if !ok {
		return 0, repositories.ErrBracketNotFound
	}
	if bracket.Status != models.BracketOpen {
		return 0, repositories.ErrBracketNotOpen
	}
	for _, seed := range r.seeds[bracketID] {
		if seed.RegistrationID == registrationID {
			return 0, repositories.ErrFighterAlreadySeeded
		}
	}
	if len(r.seeds[bracketID]) >= bracket.MaxCompetitors {
		return 0, repositories.ErrBracketFull
	}
	seed := len(r.seeds[bracketID]) + 1
	r.seeds[bracketID] = append(r.seeds[bracketID], models.BracketSeed{
		BracketID:      bracketID,
		RegistrationID: registrationID,
		Seed:           seed,
	})
	return seed, nil
}

func (r *fakeBracketRepo) ListSeeds(ctx context.Context, bracketID int) ([]models.BracketSeed, error) {
	seeds := make([]models.BracketSeed, len(r.seeds[bracketID]))
	copy(seeds, r.seeds[bracketID])
	return seeds, nil
}

func (r *fakeBracketRepo) ReplaceSeeds(ctx context.Context, exec repositories.SQLExecutor, bracketID int, registrationIDs []int) error {
	seeds := make([]models.BracketSeed, 0, len(registrationIDs))
	for i, regID := range registrationIDs {
		seeds = append(seeds, models.BracketSeed{
			BracketID:      bracketID,
			RegistrationID: regID,
			Seed:           i + 1,
		})
	}
	r.seeds[bracketID] = seeds
	return nil
}

func (r *fakeBracketRepo) ClearSeeds(ctx context.Context, exec repositories.SQLExecutor, bracketID int) error {
	delete(r.seeds, bracketID)
	return nil
}

// --- bouts ---

type fakeBoutRepo struct {
	bouts  map[int]*models.Bout
	nextID int
}

func newFakeBoutRepo() *fakeBoutRepo {
	return &fakeBoutRepo{bouts: make(map[int]*models.Bout)}
}

func (r *fakeBoutRepo) Create(ctx context.Context, exec repositories.SQLExecutor, bout *models.Bout) error {
	for _, existing := range r.bouts {
		if existing.BracketID == bout.BracketID && existing.BoutNumber == bout.BoutNumber {
			return repositories.ErrBoutNumberConflict
		}
	}
	r.nextID++
	bout.ID = r.nextID
	copied := *bout
	r.bouts[bout.ID] = &copied
	return nil
}

func (r *fakeBoutRepo) GetByID(ctx context.Context, id int) (*models.Bout, error) {
	bout, ok := r.bouts[id]
	if !ok {
		return nil, repositories.ErrBoutNotFound
	}
	copied := *bout
	return &copied, nil
}

func (r *fakeBoutRepo) ListByBracket(ctx context.Context, exec repositories.SQLExecutor, bracketID int) ([]*models.Bout, error) {
	var result []*models.Bout
	for _, bout := range r.bouts {
		if bout.BracketID == bracketID {
			copied := *bout
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].BoutNumber < result[j].BoutNumber })
	return result, nil
}

func (r *fakeBoutRepo) SetFightID(ctx context.Context, exec repositories.SQLExecutor, boutID int, fightID *int) error {
	bout, ok := r.bouts[boutID]
	if !ok {
		return repositories.ErrBoutNotFound
	}
	bout.FightID = fightID
	return nil
}

func (r *fakeBoutRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if _, ok := r.bouts[id]; !ok {
		return repositories.ErrBoutNotFound
	}
	delete(r.bouts, id)
	return nil
}

func (r *fakeBoutRepo) DeleteByBracket(ctx context.Context, exec repositories.SQLExecutor, bracketID int) error {
	for id, bout := range r.bouts {
		if bout.BracketID == bracketID {
			delete(r.bouts, id)
		}
	}
	return nil
}

// --- fights ---

type fakeFightRepo struct {
	fights map[int]*models.Fight
	nextID int
}

func newFakeFightRepo() *fakeFightRepo {
	return &fakeFightRepo{fights: make(map[int]*models.Fight)}
}

func (r *fakeFightRepo) Create(ctx context.Context, exec repositories.SQLExecutor, fight *models.Fight) error {
	for _, existing := range r.fights {
		if existing.BoutID == fight.BoutID {
			return repositories.ErrFightBoutConflict
		}
	}
	r.nextID++
	fight.ID = r.nextID
	copied := *fight
	r.fights[fight.ID] = &copied
	return nil
}

func (r *fakeFightRepo) GetByID(ctx context.Context, id int) (*models.Fight, error) {
	fight, ok := r.fights[id]
	if !ok {
		return nil, repositories.ErrFightNotFound
	}
	copied := *fight
	return &copied, nil
}

func (r *fakeFightRepo) GetByBout(ctx context.Context, boutID int) (*models.Fight, error) {
	for _, fight := range r.fights {
		if fight.BoutID == boutID {
			copied := *fight
			return &copied, nil
		}
	}
	return nil, repositories.ErrFightNotFound
}

func (r *fakeFightRepo) Update(ctx context.Context, fight *models.Fight) error {
	if _, ok := r.fights[fight.ID]; !ok {
		return repositories.ErrFightNotFound
	}
	copied := *fight
	r.fights[fight.ID] = &copied
	return nil
}

func (r *fakeFightRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if _, ok := r.fights[id]; !ok {
		return repositories.ErrFightNotFound
	}
	delete(r.fights, id)
	return nil
}

func (r *fakeFightRepo) DeleteByBout(ctx context.Context, exec repositories.SQLExecutor, boutID int) error {
	for id, fight := range r.fights {
		if fight.BoutID == boutID {
			delete(r.fights, id)
		}
	}
	return nil
}

// --- tournament settings ---

type fakeSettingsRepo struct {
	settings map[int]*models.TournamentSettings
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: make(map[int]*models.TournamentSettings)}
}

func (r *fakeSettingsRepo) GetByEvent(ctx context.Context, eventID int) (*models.TournamentSettings, error) {
	settings, ok := r.settings[eventID]
	if !ok {
		return nil, repositories.ErrSettingsNotFound
	}
	copied := *settings
	return &copied, nil
}

func (r *fakeSettingsRepo) Upsert(ctx context.Context, settings *models.TournamentSettings) error {
	copied := *settings
	r.settings[settings.EventID] = &copied
	return nil
}

func (r *fakeSettingsRepo) DeleteByEvent(ctx context.Context, exec repositories.SQLExecutor, eventID int) error {
	delete(r.settings, eventID)
	return nil
}

// --- registrations ---

type fakeRegistrationRepo struct {
	registrations map[int]*models.Registration
	nextID        int
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{registrations: make(map[int]*models.Registration)}
}

func (r *fakeRegistrationRepo) Create(ctx context.Context, reg *models.Registration) error {
	for _, existing := range r.registrations {
		if existing.EventID == reg.EventID && existing.Email == reg.Email {
			return repositories.ErrRegistrationConflict
		}
	}
	r.nextID++
	reg.ID = r.nextID
	copied := *reg
	r.registrations[reg.ID] = &copied
	return nil
}

func (r *fakeRegistrationRepo) GetByID(ctx context.Context, id int) (*models.Registration, error) {
	reg, ok := r.registrations[id]
	if !ok {
		return nil, repositories.ErrRegistrationNotFound
	}
	copied := *reg
	return &copied, nil
}

func (r *fakeRegistrationRepo) List(ctx context.Context, filter repositories.ListRegistrationsFilter) ([]*models.Registration, error) {
	var result []*models.Registration
	for _, reg := range r.registrations {
		if filter.EventID != nil && reg.EventID != *filter.EventID {
			continue
		}
		if filter.Type != nil && reg.RegistrationType != *filter.Type {
			continue
		}
		if filter.Status != nil && reg.Status != *filter.Status {
			continue
		}
		copied := *reg
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeRegistrationRepo) UpdateStatus(ctx context.Context, id int, status models.RegistrationStatus) error {
	reg, ok := r.registrations[id]
	if !ok {
		return repositories.ErrRegistrationNotFound
	}
	reg.Status = status
	return nil
}

func (r *fakeRegistrationRepo) UpdatePhotoKey(ctx context.Context, id int, photoKey *string) error {
	reg, ok := r.registrations[id]
	if !ok {
		return repositories.ErrRegistrationNotFound
	}
	reg.PhotoKey = photoKey
	return nil
}

func (r *fakeRegistrationRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.registrations[id]; !ok {
		return repositories.ErrRegistrationNotFound
	}
	delete(r.registrations, id)
	return nil
}

// --- suspensions ---

type fakeSuspensionRepo struct {
	suspensions map[int]*models.Suspension
	nextID      int
}

func newFakeSuspensionRepo() *fakeSuspensionRepo {
	return &fakeSuspensionRepo{suspensions: make(map[int]*models.Suspension)}
}

func (r *fakeSuspensionRepo) Create(ctx context.Context, suspension *models.Suspension) error {
	r.nextID++
	suspension.ID = r.nextID
	copied := *suspension
	r.suspensions[suspension.ID] = &copied
	return nil
}

func (r *fakeSuspensionRepo) List(ctx context.Context, status *models.SuspensionStatus) ([]*models.Suspension, error) {
	var result []*models.Suspension
	for _, suspension := range r.suspensions {
		if status != nil && suspension.Status != *status {
			continue
		}
		copied := *suspension
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeSuspensionRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.suspensions[id]; !ok {
		return repositories.ErrSuspensionNotFound
	}
	delete(r.suspensions, id)
	return nil
}

func (r *fakeSuspensionRepo) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	var expired int64
	for _, suspension := range r.suspensions {
		if suspension.Status == models.SuspensionActive && !suspension.Indefinite &&
			suspension.EndDate != nil && !suspension.EndDate.After(now) {
			suspension.Status = models.SuspensionExpired
			expired++
		}
	}
	return expired, nil
}

// --- side-effect doubles ---

type fakePlacementQueue struct {
	enqueued []*models.Registration
}

func (q *fakePlacementQueue) Enqueue(reg *models.Registration) {
	q.enqueued = append(q.enqueued, reg)
}

type fakeEmailService struct {
	sent []string
	err  error
}

func (s *fakeEmailService) SendRegistrationConfirmation(reg *models.Registration, event *models.Event) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, reg.Email)
	return nil
}
