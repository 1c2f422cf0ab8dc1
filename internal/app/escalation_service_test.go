package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/researchctl/sentinel/internal/clock"
	"github.com/researchctl/sentinel/internal/config"
	"github.com/researchctl/sentinel/internal/ports/secondary"
)

// mockEscalationRepository implements secondary.EscalationRepository
// in-memory, keyed by code. errOnGetByCode injects a one-shot error for a
// given code, mirroring the teacher's per-call error injection idiom.
type mockEscalationRepository struct {
	byCode         map[string]*secondary.EscalationRecord
	errOnGetByCode map[string]error
}

func newMockEscalationRepository() *mockEscalationRepository {
	return &mockEscalationRepository{
		byCode:         map[string]*secondary.EscalationRecord{},
		errOnGetByCode: map[string]error{},
	}
}

func (m *mockEscalationRepository) Create(ctx context.Context, rec *secondary.EscalationRecord) error {
	if _, exists := m.byCode[rec.Code]; exists {
		return errors.New("duplicate code")
	}
	cp := *rec
	m.byCode[rec.Code] = &cp
	*rec = cp
	return nil
}

func (m *mockEscalationRepository) GetByCode(ctx context.Context, code string) (*secondary.EscalationRecord, error) {
	if err, ok := m.errOnGetByCode[code]; ok {
		delete(m.errOnGetByCode, code)
		return nil, err
	}
	rec, ok := m.byCode[code]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (m *mockEscalationRepository) List(ctx context.Context, filters secondary.EscalationFilters) ([]*secondary.EscalationRecord, error) {
	var out []*secondary.EscalationRecord
	for _, rec := range m.byCode {
		if filters.State != "" && rec.State != filters.State {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockEscalationRepository) Update(ctx context.Context, rec *secondary.EscalationRecord) error {
	if _, ok := m.byCode[rec.Code]; !ok {
		return errors.New("no such escalation")
	}
	cp := *rec
	m.byCode[rec.Code] = &cp
	return nil
}

func (m *mockEscalationRepository) AssignDirector(ctx context.Context, code, director string) error {
	rec, ok := m.byCode[code]
	if !ok {
		return errors.New("no such escalation")
	}
	rec.AssignedDirector = director
	return nil
}

func (m *mockEscalationRepository) CountUnhandled(ctx context.Context) (int, error) {
	n := 0
	for _, rec := range m.byCode {
		if rec.State != "ACKNOWLEDGED" && rec.State != "RESOLVED" && rec.State != "EXPIRED" {
			n++
		}
	}
	return n, nil
}

// mockAlertStore implements secondary.AlertStore in-memory.
type mockAlertStore struct {
	pending []secondary.AlertFile
	deleted []string
}

func (m *mockAlertStore) Write(ctx context.Context, rec secondary.AlertRecord) error {
	cp := rec
	path := rec.Code + "_pending"
	m.pending = append(m.pending, secondary.AlertFile{Path: path, Record: &cp})
	return nil
}

func (m *mockAlertStore) ListPending(ctx context.Context) ([]secondary.AlertFile, error) {
	return m.pending, nil
}

func (m *mockAlertStore) Delete(ctx context.Context, path string) error {
	m.deleted = append(m.deleted, path)
	var kept []secondary.AlertFile
	for _, f := range m.pending {
		if f.Path != path {
			kept = append(kept, f)
		}
	}
	m.pending = kept
	return nil
}

// mockNotificationStore implements secondary.NotificationStore in-memory.
type mockNotificationStore struct {
	escalationNotices int
	lockdownNotices   int
}

func (m *mockNotificationStore) WriteEscalationNotice(ctx context.Context, code, level, message, createdAt string) error {
	m.escalationNotices++
	return nil
}

func (m *mockNotificationStore) WriteLockdownNotice(ctx context.Context, reason, createdAt string) error {
	m.lockdownNotices++
	return nil
}

// mockConfigRepository implements secondary.ConfigRepository in-memory.
type mockConfigRepository struct {
	values map[string]string
}

func newMockConfigRepository() *mockConfigRepository {
	return &mockConfigRepository{values: map[string]string{}}
}

func (m *mockConfigRepository) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *mockConfigRepository) Set(ctx context.Context, key, value, timestamp string) error {
	m.values[key] = value
	return nil
}

func (m *mockConfigRepository) All(ctx context.Context) (map[string]string, error) {
	return m.values, nil
}

func (m *mockConfigRepository) SeedDefaults(ctx context.Context, values map[string]string, timestamp string) error {
	for k, v := range values {
		if _, ok := m.values[k]; !ok {
			m.values[k] = v
		}
	}
	return nil
}

// mockAuditRepository implements secondary.AuditRepository in-memory.
type mockAuditRepository struct {
	rows []*secondary.AuditRecord
}

func (m *mockAuditRepository) Append(ctx context.Context, rec *secondary.AuditRecord) error {
	cp := *rec
	cp.ID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *mockAuditRepository) Recent(ctx context.Context, n int) ([]*secondary.AuditRecord, error) {
	if n > len(m.rows) {
		n = len(m.rows)
	}
	out := make([]*secondary.AuditRecord, n)
	for i := 0; i < n; i++ {
		out[i] = m.rows[len(m.rows)-1-i]
	}
	return out, nil
}

func (m *mockAuditRepository) All(ctx context.Context) ([]*secondary.AuditRecord, error) {
	return m.rows, nil
}

func newTestAuditService(clk clock.Clock) (*AuditService, *mockAuditRepository) {
	repo := &mockAuditRepository{}
	return NewAuditService(repo, clk), repo
}

func newMockModeRepository(initial string) *mockModeRepository {
	return &mockModeRepository{history: []*secondary.ModeRecord{
		{ID: 1, Mode: initial, UpdatedAt: "2026-01-01T00:00:00", Reason: "test setup"},
	}}
}

func TestEscalationLadderFullEscalation(t *testing.T) {
	clk := testClock()
	escalations := newMockEscalationRepository()
	alerts := &mockAlertStore{}
	notices := &mockNotificationStore{}
	cfg := newMockConfigRepository()
	modeRepo := newMockModeRepository("NORMAL")
	audit, _ := newTestAuditService(clk)

	svc := NewEscalationService(escalations, alerts, notices, cfg, modeRepo, audit, clk)
	ctx := context.Background()

	// Inject one CRITICAL alert and tick: expect L1/NOTIFIED and one notice.
	_ = alerts.Write(ctx, secondary.AlertRecord{Level: "CRITICAL", Code: "X", Message: "m", CreatedAt: clock.Format(clk.Now())})
	if err := svc.RunTick(ctx); err != nil {
		t.Fatalf("tick 1: %v", err)
	}
	rec, _ := escalations.GetByCode(ctx, "X")
	if rec == nil || rec.Level != "L1" || rec.State != "NOTIFIED" {
		t.Fatalf("expected L1/NOTIFIED, got %+v", rec)
	}
	if notices.escalationNotices != 1 {
		t.Fatalf("expected 1 escalation notice, got %d", notices.escalationNotices)
	}

	// +24h -> L2
	clk.Advance(24 * time.Hour)
	if err := svc.RunTick(ctx); err != nil {
		t.Fatalf("tick 2: %v", err)
	}
	rec, _ = escalations.GetByCode(ctx, "X")
	if rec.Level != "L2" {
		t.Fatalf("expected L2, got %s", rec.Level)
	}
	if notices.escalationNotices != 2 {
		t.Fatalf("expected 2 escalation notices, got %d", notices.escalationNotices)
	}

	// +48h -> L3
	clk.Advance(48 * time.Hour)
	if err := svc.RunTick(ctx); err != nil {
		t.Fatalf("tick 3: %v", err)
	}
	rec, _ = escalations.GetByCode(ctx, "X")
	if rec.Level != "L3" {
		t.Fatalf("expected L3, got %s", rec.Level)
	}

	// +72h -> L4
	clk.Advance(72 * time.Hour)
	if err := svc.RunTick(ctx); err != nil {
		t.Fatalf("tick 4: %v", err)
	}
	rec, _ = escalations.GetByCode(ctx, "X")
	if rec.Level != "L4" {
		t.Fatalf("expected L4, got %s", rec.Level)
	}
	if modeRepo.history[len(modeRepo.history)-1].Mode == "LOCKDOWN" {
		t.Fatal("expected no LOCKDOWN yet at L4 before the 168h threshold elapses")
	}

	// +168h -> auto lockdown.
	clk.Advance(168 * time.Hour)
	if err := svc.RunTick(ctx); err != nil {
		t.Fatalf("tick 5: %v", err)
	}
	current := modeRepo.history[len(modeRepo.history)-1]
	if current.Mode != "LOCKDOWN" {
		t.Fatalf("expected LOCKDOWN, got %s", current.Mode)
	}
	if !contains(current.Reason, "L4 escalation: X") {
		t.Fatalf("expected reason to mention L4 escalation: X, got %q", current.Reason)
	}
	if notices.lockdownNotices != 1 {
		t.Fatalf("expected 1 lockdown notice, got %d", notices.lockdownNotices)
	}

	// A subsequent tick at +24h must not duplicate the lockdown mode row.
	lockdownRows := len(modeRepo.history)
	clk.Advance(24 * time.Hour)
	if err := svc.RunTick(ctx); err != nil {
		t.Fatalf("tick 6: %v", err)
	}
	if len(modeRepo.history) != lockdownRows {
		t.Fatalf("expected no additional mode row, history grew from %d to %d", lockdownRows, len(modeRepo.history))
	}
	if notices.lockdownNotices != 1 {
		t.Fatalf("expected still 1 lockdown notice, got %d", notices.lockdownNotices)
	}
}

func TestEscalationAutoLockdownDisabledByConfig(t *testing.T) {
	clk := testClock()
	escalations := newMockEscalationRepository()
	alerts := &mockAlertStore{}
	notices := &mockNotificationStore{}
	cfg := newMockConfigRepository()
	cfg.values[config.KeyAutoLockdownEnabled] = "false"
	modeRepo := newMockModeRepository("NORMAL")
	audit, _ := newTestAuditService(clk)

	svc := NewEscalationService(escalations, alerts, notices, cfg, modeRepo, audit, clk)
	ctx := context.Background()

	_ = alerts.Write(ctx, secondary.AlertRecord{Level: "CRITICAL", Code: "X", Message: "m", CreatedAt: clock.Format(clk.Now())})
	if err := svc.RunTick(ctx); err != nil {
		t.Fatal(err)
	}
	clk.Advance(24 * time.Hour)
	if err := svc.RunTick(ctx); err != nil {
		t.Fatal(err)
	}
	clk.Advance(48 * time.Hour)
	if err := svc.RunTick(ctx); err != nil {
		t.Fatal(err)
	}
	clk.Advance(72 * time.Hour)
	if err := svc.RunTick(ctx); err != nil {
		t.Fatal(err)
	}
	clk.Advance(168 * time.Hour)
	if err := svc.RunTick(ctx); err != nil {
		t.Fatal(err)
	}

	if modeRepo.history[len(modeRepo.history)-1].Mode == "LOCKDOWN" {
		t.Fatal("expected auto_lockdown_enabled=false to suppress the automatic LOCKDOWN write")
	}
}

func TestEscalationAcknowledgedNeverPromoted(t *testing.T) {
	clk := testClock()
	escalations := newMockEscalationRepository()
	alerts := &mockAlertStore{}
	notices := &mockNotificationStore{}
	cfg := newMockConfigRepository()
	modeRepo := newMockModeRepository("NORMAL")
	audit, _ := newTestAuditService(clk)
	svc := NewEscalationService(escalations, alerts, notices, cfg, modeRepo, audit, clk)
	ctx := context.Background()

	_ = alerts.Write(ctx, secondary.AlertRecord{Level: "WARNING", Code: "Y", Message: "m", CreatedAt: clock.Format(clk.Now())})
	if err := svc.RunTick(ctx); err != nil {
		t.Fatal(err)
	}
	if err := svc.AcknowledgeEscalation(ctx, "Y"); err != nil {
		t.Fatal(err)
	}

	clk.Advance(365 * 24 * time.Hour)
	if err := svc.RunTick(ctx); err != nil {
		t.Fatal(err)
	}
	rec, _ := escalations.GetByCode(ctx, "Y")
	if rec.Level != "L1" || rec.State != "ACKNOWLEDGED" {
		t.Fatalf("expected acknowledged escalation to stay at L1/ACKNOWLEDGED, got %+v", rec)
	}
}

func TestEscalationResolvedNeverReopened(t *testing.T) {
	clk := testClock()
	escalations := newMockEscalationRepository()
	alerts := &mockAlertStore{}
	notices := &mockNotificationStore{}
	cfg := newMockConfigRepository()
	modeRepo := newMockModeRepository("NORMAL")
	audit, _ := newTestAuditService(clk)
	svc := NewEscalationService(escalations, alerts, notices, cfg, modeRepo, audit, clk)
	ctx := context.Background()

	_ = alerts.Write(ctx, secondary.AlertRecord{Level: "WARNING", Code: "Z", Message: "m", CreatedAt: clock.Format(clk.Now())})
	if err := svc.RunTick(ctx); err != nil {
		t.Fatal(err)
	}
	if err := svc.ResolveEscalation(ctx, "Z", "fixed it"); err != nil {
		t.Fatal(err)
	}

	// A new alert with the same code must not reopen the resolved record.
	_ = alerts.Write(ctx, secondary.AlertRecord{Level: "WARNING", Code: "Z", Message: "again", CreatedAt: clock.Format(clk.Now())})
	if err := svc.RunTick(ctx); err != nil {
		t.Fatal(err)
	}
	rec, _ := escalations.GetByCode(ctx, "Z")
	if rec.State != "RESOLVED" {
		t.Fatalf("expected Z to stay RESOLVED, got %s", rec.State)
	}
}

func TestEscalationIngestStorageFaultLogsAndContinues(t *testing.T) {
	clk := testClock()
	escalations := newMockEscalationRepository()
	alerts := &mockAlertStore{}
	notices := &mockNotificationStore{}
	cfg := newMockConfigRepository()
	modeRepo := newMockModeRepository("NORMAL")
	audit, auditRepo := newTestAuditService(clk)
	svc := NewEscalationService(escalations, alerts, notices, cfg, modeRepo, audit, clk)
	ctx := context.Background()

	escalations.errOnGetByCode["A"] = errors.New("database is locked")
	_ = alerts.Write(ctx, secondary.AlertRecord{Level: "CRITICAL", Code: "A", Message: "m", CreatedAt: clock.Format(clk.Now())})
	_ = alerts.Write(ctx, secondary.AlertRecord{Level: "WARNING", Code: "B", Message: "m", CreatedAt: clock.Format(clk.Now())})

	if err := svc.RunTick(ctx); err != nil {
		t.Fatalf("expected the tick to survive a per-item storage fault, got %v", err)
	}

	// B, ingested after the failing A, must still have been processed.
	recB, _ := escalations.GetByCode(ctx, "B")
	if recB == nil || recB.Level != "L1" || recB.State != "NOTIFIED" {
		t.Fatalf("expected B to be ingested despite A's storage fault, got %+v", recB)
	}

	// A's alert file is left in place; nothing to ingest from it landed.
	if len(alerts.pending) != 1 || alerts.pending[0].Record.Code != "A" {
		t.Fatalf("expected A's alert file to remain pending, got %+v", alerts.pending)
	}

	found := false
	for _, row := range auditRepo.rows {
		if row.Action == "escalation_processing_error" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected an escalation_processing_error audit entry for the storage fault on A")
	}
}

func TestEscalationMalformedAlertIsAuditedAndRetained(t *testing.T) {
	clk := testClock()
	escalations := newMockEscalationRepository()
	alerts := &mockAlertStore{}
	notices := &mockNotificationStore{}
	cfg := newMockConfigRepository()
	modeRepo := newMockModeRepository("NORMAL")
	audit, auditRepo := newTestAuditService(clk)
	svc := NewEscalationService(escalations, alerts, notices, cfg, modeRepo, audit, clk)
	ctx := context.Background()

	alerts.pending = append(alerts.pending, secondary.AlertFile{
		Path: "bad.json",
		Err:  errors.New("failed to parse bad.json: unexpected end of JSON input"),
	})

	if err := svc.RunTick(ctx); err != nil {
		t.Fatalf("tick with malformed alert: %v", err)
	}

	if len(alerts.pending) != 1 {
		t.Fatalf("expected malformed alert file to be retained, got %d pending", len(alerts.pending))
	}

	found := false
	for _, row := range auditRepo.rows {
		if row.Action == "alert_ingest_error" && row.Target == "bad.json" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected an alert_ingest_error audit entry for the malformed alert file")
	}
}

func contains(haystack, needle string) bool {
	return len(haystack) >= len(needle) && (func() bool {
		for i := 0; i+len(needle) <= len(haystack); i++ {
			if haystack[i:i+len(needle)] == needle {
				return true
			}
		}
		return false
	})()
}
