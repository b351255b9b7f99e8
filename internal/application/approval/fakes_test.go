package approval

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/identity"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/request"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/shared"
)

// fakeExpenseRepo is an in-memory ExpenseRepository for service tests.
// Error fields, when set, are returned by the corresponding method.
type fakeExpenseRepo struct {
	items    map[uuid.UUID]*request.ExpenseRequest
	findErr  error
	saveErr  error
	countErr error

	// homeDepartments maps requester IDs to their home department, feeding
	// the home side of CountReferencingDepartment.
	homeDepartments map[uuid.UUID]uuid.UUID

	// statusOverride, when set, makes UpdateStatusFrom see this status
	// instead of the stored one, simulating a concurrent writer.
	statusOverride *request.Status
}

func newFakeExpenseRepo() *fakeExpenseRepo {
	return &fakeExpenseRepo{
		items:           make(map[uuid.UUID]*request.ExpenseRequest),
		homeDepartments: make(map[uuid.UUID]uuid.UUID),
	}
}

func (r *fakeExpenseRepo) FindByID(_ context.Context, id uuid.UUID) (*request.ExpenseRequest, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	req, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *req
	return &copied, nil
}

func (r *fakeExpenseRepo) FindAll(_ context.Context, filter request.ListFilter) ([]request.ExpenseRequest, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []request.ExpenseRequest
	for _, req := range r.items {
		if filter.Status != nil && req.Status != *filter.Status {
			continue
		}
		if filter.RequesterID != nil && req.RequesterID != *filter.RequesterID {
			continue
		}
		out = append(out, *req)
	}
	sort.Slice(out, func(i, j int) bool {
		return combinedBefore(&out[i].Core, &out[j].Core)
	})
	return out, nil
}

func (r *fakeExpenseRepo) Save(_ context.Context, req *request.ExpenseRequest) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	copied := *req
	r.items[req.ID] = &copied
	return nil
}

func (r *fakeExpenseRepo) UpdateStatusFrom(_ context.Context, id uuid.UUID, from, to request.Status) error {
	req, ok := r.items[id]
	if !ok {
		return shared.ErrNotFound
	}
	current := req.Status
	if r.statusOverride != nil {
		current = *r.statusOverride
	}
	if current != from {
		return shared.ErrConcurrencyConflict
	}
	req.Status = to
	return nil
}

func (r *fakeExpenseRepo) UpdateContentWhilePending(_ context.Context, req *request.ExpenseRequest) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	stored, ok := r.items[req.ID]
	if !ok {
		return shared.ErrNotFound
	}
	current := stored.Status
	if r.statusOverride != nil {
		current = *r.statusOverride
	}
	if current != request.StatusPending {
		return shared.ErrConcurrencyConflict
	}
	copied := *req
	copied.Status = stored.Status
	r.items[req.ID] = &copied
	return nil
}

func (r *fakeExpenseRepo) UpdateReceipt(_ context.Context, id uuid.UUID, ref request.ReceiptReference) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	req, ok := r.items[id]
	if !ok {
		return shared.ErrNotFound
	}
	req.Receipt = &ref
	return nil
}

func (r *fakeExpenseRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// CountReferencingDepartment mirrors the production query: a request counts
// when it carries the department explicitly or its requester's home
// department is the target, whichever side matches.
func (r *fakeExpenseRepo) CountReferencingDepartment(_ context.Context, departmentID uuid.UUID) (int64, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	var n int64
	for _, req := range r.items {
		if req.DepartmentID != nil && *req.DepartmentID == departmentID {
			n++
			continue
		}
		if home, ok := r.homeDepartments[req.RequesterID]; ok && home == departmentID {
			n++
		}
	}
	return n, nil
}

func (r *fakeExpenseRepo) CountReferencingProject(_ context.Context, projectID uuid.UUID) (int64, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	var n int64
	for _, req := range r.items {
		if req.ProjectID != nil && *req.ProjectID == projectID {
			n++
		}
	}
	return n, nil
}

func (r *fakeExpenseRepo) CountReferencingEvent(_ context.Context, eventID uuid.UUID) (int64, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	var n int64
	for _, req := range r.items {
		if req.EventID != nil && *req.EventID == eventID {
			n++
		}
	}
	return n, nil
}

type fakeInvoiceRepo struct {
	items    map[uuid.UUID]*request.InvoiceRequest
	findErr  error
	saveErr  error
	countErr error

	homeDepartments map[uuid.UUID]uuid.UUID
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		items:           make(map[uuid.UUID]*request.InvoiceRequest),
		homeDepartments: make(map[uuid.UUID]uuid.UUID),
	}
}

func (r *fakeInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*request.InvoiceRequest, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	req, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *req
	return &copied, nil
}

func (r *fakeInvoiceRepo) FindAll(_ context.Context, filter request.ListFilter) ([]request.InvoiceRequest, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []request.InvoiceRequest
	for _, req := range r.items {
		if filter.Status != nil && req.Status != *filter.Status {
			continue
		}
		if filter.RequesterID != nil && req.RequesterID != *filter.RequesterID {
			continue
		}
		out = append(out, *req)
	}
	sort.Slice(out, func(i, j int) bool {
		return combinedBefore(&out[i].Core, &out[j].Core)
	})
	return out, nil
}

func (r *fakeInvoiceRepo) Save(_ context.Context, req *request.InvoiceRequest) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	copied := *req
	r.items[req.ID] = &copied
	return nil
}

func (r *fakeInvoiceRepo) UpdateStatusFrom(_ context.Context, id uuid.UUID, from, to request.Status) error {
	req, ok := r.items[id]
	if !ok {
		return shared.ErrNotFound
	}
	if req.Status != from {
		return shared.ErrConcurrencyConflict
	}
	req.Status = to
	return nil
}

func (r *fakeInvoiceRepo) UpdateContentWhilePending(_ context.Context, req *request.InvoiceRequest) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	stored, ok := r.items[req.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Status != request.StatusPending {
		return shared.ErrConcurrencyConflict
	}
	copied := *req
	copied.Status = stored.Status
	r.items[req.ID] = &copied
	return nil
}

func (r *fakeInvoiceRepo) UpdateReceipt(_ context.Context, id uuid.UUID, ref request.ReceiptReference) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	req, ok := r.items[id]
	if !ok {
		return shared.ErrNotFound
	}
	req.Receipt = &ref
	return nil
}

func (r *fakeInvoiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakeInvoiceRepo) CountReferencingDepartment(_ context.Context, departmentID uuid.UUID) (int64, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	var n int64
	for _, req := range r.items {
		if req.DepartmentID != nil && *req.DepartmentID == departmentID {
			n++
			continue
		}
		if home, ok := r.homeDepartments[req.RequesterID]; ok && home == departmentID {
			n++
		}
	}
	return n, nil
}

func (r *fakeInvoiceRepo) CountReferencingProject(_ context.Context, projectID uuid.UUID) (int64, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	var n int64
	for _, req := range r.items {
		if req.ProjectID != nil && *req.ProjectID == projectID {
			n++
		}
	}
	return n, nil
}

func (r *fakeInvoiceRepo) CountReferencingEvent(_ context.Context, eventID uuid.UUID) (int64, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	var n int64
	for _, req := range r.items {
		if req.EventID != nil && *req.EventID == eventID {
			n++
		}
	}
	return n, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*identity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*identity.User)}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*identity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeUserRepo) Save(_ context.Context, u *identity.User) error {
	r.users[u.ID] = u
	return nil
}

// interface conformance
var (
	_ request.ExpenseRepository = (*fakeExpenseRepo)(nil)
	_ request.InvoiceRepository = (*fakeInvoiceRepo)(nil)
	_ identity.UserRepository   = (*fakeUserRepo)(nil)
)
