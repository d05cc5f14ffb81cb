package crud

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"godata/audit"
	"godata/data/repo"
	"godata/domain"
	"godata/domain/filter"
	"godata/errors"
	"godata/identity"
)

type svcPatient struct {
	domain.Entity
	Name string
}

func (p *svcPatient) Validate() error   { return nil }
func (p *svcPatient) Table() string     { return "patients" }
func (p *svcPatient) Columns() []string { return append(p.AuditColumns(), "name") }
func (p *svcPatient) Values() []any     { return append(p.AuditValues(), p.Name) }
func (p *svcPatient) Dest() []any       { return append(p.AuditDest(), &p.Name) }
func (p *svcPatient) Properties() map[string]any {
	props := p.AuditProperties()
	props["name"] = p.Name
	return props
}

var errBoom = errors.NewError(errors.ErrCodeDatabase, "store unavailable")

// failingRepo 所有操作都失败，用于验证门面的吞错默认值契约
type failingRepo struct{}

func (f *failingRepo) Get(ctx context.Context, id int64) (*svcPatient, error) {
	return nil, errBoom
}
func (f *failingRepo) GetAny(ctx context.Context, id int64) (*svcPatient, error) {
	return nil, errBoom
}
func (f *failingRepo) Exists(ctx context.Context, id int64) (bool, error) { return false, errBoom }
func (f *failingRepo) Query(ctx context.Context, fl filter.Filter) ([]*svcPatient, error) {
	return nil, errBoom
}
func (f *failingRepo) QueryOne(ctx context.Context, fl filter.Filter) (*svcPatient, error) {
	return nil, errBoom
}
func (f *failingRepo) QueryPage(ctx context.Context, fl filter.Filter) (*repo.PagedResult[*svcPatient], error) {
	return nil, errBoom
}
func (f *failingRepo) Count(ctx context.Context, fl filter.Filter) (int64, error) {
	return 0, errBoom
}
func (f *failingRepo) CountAll(ctx context.Context) (int64, error) { return 0, errBoom }
func (f *failingRepo) FindBySpec(ctx context.Context, spec repo.Specification) ([]*svcPatient, error) {
	return nil, errBoom
}
func (f *failingRepo) Add(ctx context.Context, e *svcPatient, actor identity.Identity) (*svcPatient, error) {
	return nil, errBoom
}
func (f *failingRepo) Update(ctx context.Context, e *svcPatient, actor identity.Identity) (*svcPatient, error) {
	return nil, errBoom
}
func (f *failingRepo) SoftDelete(ctx context.Context, id int64, actor identity.Identity) error {
	return errBoom
}
func (f *failingRepo) Restore(ctx context.Context, id int64, actor identity.Identity) (*svcPatient, error) {
	return nil, errBoom
}
func (f *failingRepo) HardDelete(ctx context.Context, id int64, actor identity.Identity) error {
	return errBoom
}
func (f *failingRepo) AddAll(ctx context.Context, items []*svcPatient, actor identity.Identity) ([]*svcPatient, error) {
	return nil, errBoom
}
func (f *failingRepo) UpdateAll(ctx context.Context, items []*svcPatient, actor identity.Identity) ([]*svcPatient, error) {
	return nil, errBoom
}
func (f *failingRepo) DeleteAll(ctx context.Context, ids []int64, actor identity.Identity) error {
	return errBoom
}
func (f *failingRepo) DetectChanges(ctx context.Context, e *svcPatient, mode audit.Mode) (string, error) {
	return "", errBoom
}
func (f *failingRepo) AuditTrail(ctx context.Context, id int64, offset, limit int) ([]audit.Record, error) {
	return nil, errBoom
}

var _ IRepository[*svcPatient] = (*failingRepo)(nil)

// 门面绝不向上抛错：每个操作在仓储失败时返回该操作的零值
func TestService_SwallowsAllErrors(t *testing.T) {
	ctx := context.Background()
	svc := NewService[*svcPatient](&failingRepo{}, nil)
	actor := identity.Identity{TenantID: 1, ActorID: 2}
	f := filter.ForTenant(1)

	require.Nil(t, svc.Get(ctx, 1))
	require.False(t, svc.Exists(ctx, 1))
	require.NotNil(t, svc.Query(ctx, f))
	require.Empty(t, svc.Query(ctx, f))
	require.Nil(t, svc.QueryOne(ctx, f))
	require.Zero(t, svc.Count(ctx, f))
	require.Nil(t, svc.Add(ctx, &svcPatient{Name: "x"}, actor))
	require.Empty(t, svc.AddAll(ctx, []*svcPatient{{Name: "x"}}, actor))
	require.Nil(t, svc.Update(ctx, &svcPatient{Name: "x"}, actor))
	require.Empty(t, svc.UpdateAll(ctx, []*svcPatient{{Name: "x"}}, actor))
	require.False(t, svc.Delete(ctx, 1, actor))
	require.False(t, svc.DeleteAll(ctx, []int64{1}, actor))
	require.Nil(t, svc.Restore(ctx, 1, actor))
	require.Empty(t, svc.DetectChanges(ctx, &svcPatient{Name: "x"}, audit.ModeChangedOnly))
	require.Empty(t, svc.AuditTrail(ctx, 1, 0, 10))

	page := svc.QueryPage(ctx, f)
	require.NotNil(t, page)
	require.Empty(t, page.Data)
	require.Zero(t, page.Total)
	require.Equal(t, filter.DefaultTake, page.Take)
}

// okRepo 固定返回成功结果，验证门面透传
type okRepo struct {
	failingRepo
	entity *svcPatient
}

func (o *okRepo) Get(ctx context.Context, id int64) (*svcPatient, error) { return o.entity, nil }
func (o *okRepo) SoftDelete(ctx context.Context, id int64, actor identity.Identity) error {
	return nil
}

func TestService_PassesThroughOnSuccess(t *testing.T) {
	ctx := context.Background()
	e := &svcPatient{Name: "张三"}
	e.ID = 5
	svc := NewService[*svcPatient](&okRepo{entity: e}, nil)

	got := svc.Get(ctx, 5)
	require.NotNil(t, got)
	require.Equal(t, "张三", got.Name)
	require.True(t, svc.Delete(ctx, 5, identity.Identity{ActorID: 1}))
}
