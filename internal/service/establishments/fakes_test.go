package establishments

import (
	"context"
	"slices"
	"strings"

	"github.com/mamadbah2/herd-admin/internal/domain/models"
	"github.com/mamadbah2/herd-admin/internal/repository"
)

type memEstablishments struct {
	byCuig map[string]models.Establishment
}

func newMemEstablishments(seed ...models.Establishment) *memEstablishments {
	m := &memEstablishments{byCuig: make(map[string]models.Establishment)}
	for _, e := range seed {
		m.byCuig[e.Cuig] = e
	}
	return m
}

func (m *memEstablishments) Insert(_ context.Context, e *models.Establishment) error {
	if _, ok := m.byCuig[e.Cuig]; ok {
		return repository.ErrDuplicate
	}
	m.byCuig[e.Cuig] = *e
	return nil
}

func (m *memEstablishments) FindByCuig(_ context.Context, cuig string) (*models.Establishment, error) {
	e, ok := m.byCuig[cuig]
	if !ok {
		return nil, repository.ErrNotFound
	}
	e.Subscriptions = slices.Clone(e.Subscriptions)
	return &e, nil
}

func (m *memEstablishments) FindAll(context.Context) ([]models.Establishment, error) {
	out := []models.Establishment{}
	for _, e := range m.byCuig {
		out = append(out, e)
	}
	return out, nil
}

func (m *memEstablishments) Replace(_ context.Context, e *models.Establishment) error {
	if _, ok := m.byCuig[e.Cuig]; !ok {
		return repository.ErrNotFound
	}
	m.byCuig[e.Cuig] = *e
	return nil
}

func (m *memEstablishments) DeleteByCuig(_ context.Context, cuig string) error {
	if _, ok := m.byCuig[cuig]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byCuig, cuig)
	return nil
}

type memTypes struct {
	types []models.SubscriptionType
}

func (m *memTypes) Insert(_ context.Context, t *models.SubscriptionType) error {
	m.types = append(m.types, *t)
	return nil
}

func (m *memTypes) FindLatestByName(_ context.Context, name string) (*models.SubscriptionType, error) {
	var latest *models.SubscriptionType
	for i := range m.types {
		t := m.types[i]
		if !strings.EqualFold(t.Name, name) {
			continue
		}
		if latest == nil || t.CreationDate.After(latest.CreationDate) {
			latest = &t
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	return latest, nil
}

func (m *memTypes) Replace(_ context.Context, t *models.SubscriptionType) error {
	for i := range m.types {
		if strings.EqualFold(m.types[i].Name, t.Name) && m.types[i].CreationDate.Equal(t.CreationDate) {
			m.types[i] = *t
			return nil
		}
	}
	return repository.ErrNotFound
}

type memAudits struct {
	audits []models.Audit
	err    error
}

func (m *memAudits) Insert(_ context.Context, a *models.Audit) error {
	if m.err != nil {
		return m.err
	}
	m.audits = append(m.audits, *a)
	return nil
}

func (m *memAudits) List(_ context.Context, cuig string, page, size int64) ([]models.Audit, int64, error) {
	var matched []models.Audit
	for _, a := range m.audits {
		if cuig == "" || a.EstablishmentCuig == cuig {
			matched = append(matched, a)
		}
	}
	slices.SortFunc(matched, func(a, b models.Audit) int { return b.AuditDate.Compare(a.AuditDate) })

	start := min(page*size, int64(len(matched)))
	end := min(start+size, int64(len(matched)))
	return matched[start:end], int64(len(matched)), nil
}
