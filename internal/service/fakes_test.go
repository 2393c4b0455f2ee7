package service

import (
	"context"
	"sort"
	"time"

	"github.com/hugohenrick/pdv-varejo/internal/adapter/repository"
	"github.com/hugohenrick/pdv-varejo/internal/domain/customer"
	"github.com/hugohenrick/pdv-varejo/internal/domain/inventory"
	"github.com/hugohenrick/pdv-varejo/internal/domain/license"
	"github.com/hugohenrick/pdv-varejo/internal/domain/productreturn"
	"github.com/hugohenrick/pdv-varejo/internal/domain/sale"
)

// passTxManager executa a função diretamente, sem banco de dados
type passTxManager struct{}

func (passTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// rollbackTxManager espelha o comportamento do gerenciador pgx: quando a
// função retorna erro, o estado dos repositórios falsos volta ao snapshot
// tirado no início da transação
type rollbackTxManager struct {
	licenses    *fakeLicenseRepo
	activations *fakeActivationRepo
}

func (m rollbackTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	licenseSnap := make(map[string]license.License, len(m.licenses.licenses))
	for id, l := range m.licenses.licenses {
		licenseSnap[id] = *l
	}
	activationSnap := make([]license.Activation, len(m.activations.activations))
	for i, a := range m.activations.activations {
		activationSnap[i] = *a
	}

	if err := fn(ctx); err != nil {
		m.licenses.licenses = make(map[string]*license.License, len(licenseSnap))
		for id := range licenseSnap {
			restored := licenseSnap[id]
			m.licenses.licenses[id] = &restored
		}
		m.activations.activations = make([]*license.Activation, len(activationSnap))
		for i := range activationSnap {
			restored := activationSnap[i]
			m.activations.activations[i] = &restored
		}
		return err
	}
	return nil
}

// failingActivationRepo simula uma falha de infraestrutura na busca por chave
type failingActivationRepo struct {
	fakeActivationRepo
	findErr error
}

func (r *failingActivationRepo) FindByKey(ctx context.Context, activationKey string) (*license.Activation, error) {
	return nil, r.findErr
}

// nopLogger descarta as mensagens durante os testes
type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Warn(msg string, keysAndValues ...interface{})  {}

// fakeLicenseRepo é uma implementação em memória de license.Repository
type fakeLicenseRepo struct {
	licenses map[string]*license.License
}

func newFakeLicenseRepo() *fakeLicenseRepo {
	return &fakeLicenseRepo{licenses: make(map[string]*license.License)}
}

func (r *fakeLicenseRepo) Create(ctx context.Context, l *license.License) error {
	r.licenses[l.ID] = l
	return nil
}

func (r *fakeLicenseRepo) FindByID(ctx context.Context, id string) (*license.License, error) {
	if l, ok := r.licenses[id]; ok {
		return l, nil
	}
	return nil, repository.ErrLicenseNotFound
}

func (r *fakeLicenseRepo) FindByKey(ctx context.Context, key string) (*license.License, error) {
	for _, l := range r.licenses {
		if l.Key == key {
			return l, nil
		}
	}
	return nil, repository.ErrLicenseNotFound
}

func (r *fakeLicenseRepo) FindByKeyForUpdate(ctx context.Context, key string) (*license.License, error) {
	return r.FindByKey(ctx, key)
}

func (r *fakeLicenseRepo) List(ctx context.Context, limit, offset int) ([]*license.License, error) {
	result := make([]*license.License, 0, len(r.licenses))
	for _, l := range r.licenses {
		result = append(result, l)
	}
	return result, nil
}

func (r *fakeLicenseRepo) Count(ctx context.Context) (int, error) {
	return len(r.licenses), nil
}

func (r *fakeLicenseRepo) Update(ctx context.Context, l *license.License) error {
	if _, ok := r.licenses[l.ID]; !ok {
		return repository.ErrLicenseNotFound
	}
	r.licenses[l.ID] = l
	return nil
}

func (r *fakeLicenseRepo) UpdateStatus(ctx context.Context, id string, status license.Status) error {
	l, ok := r.licenses[id]
	if !ok {
		return repository.ErrLicenseNotFound
	}
	l.Status = status
	return nil
}

func (r *fakeLicenseRepo) ExistsByKey(ctx context.Context, key string) (bool, error) {
	_, err := r.FindByKey(ctx, key)
	return err == nil, nil
}

// fakeActivationRepo é uma implementação em memória de license.ActivationRepository
type fakeActivationRepo struct {
	activations []*license.Activation
}

func (r *fakeActivationRepo) Create(ctx context.Context, a *license.Activation) error {
	r.activations = append(r.activations, a)
	return nil
}

func (r *fakeActivationRepo) FindByKey(ctx context.Context, activationKey string) (*license.Activation, error) {
	for _, a := range r.activations {
		if a.ActivationKey == activationKey {
			return a, nil
		}
	}
	return nil, repository.ErrActivationNotFound
}

func (r *fakeActivationRepo) FindByLicense(ctx context.Context, licenseID string, limit, offset int) ([]*license.Activation, error) {
	result := make([]*license.Activation, 0)
	for _, a := range r.activations {
		if a.LicenseID == licenseID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (r *fakeActivationRepo) CountActive(ctx context.Context, licenseID string) (int, error) {
	count := 0
	for _, a := range r.activations {
		if a.LicenseID == licenseID && a.IsActive {
			count++
		}
	}
	return count, nil
}

func (r *fakeActivationRepo) FindActive(ctx context.Context, licenseID string) ([]*license.Activation, error) {
	result := make([]*license.Activation, 0)
	for _, a := range r.activations {
		if a.LicenseID == licenseID && a.IsActive {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ActivatedAt.Before(result[j].ActivatedAt)
	})
	return result, nil
}

func (r *fakeActivationRepo) FindActiveByHardware(ctx context.Context, licenseID, hardwareID string) ([]*license.Activation, error) {
	result := make([]*license.Activation, 0)
	for _, a := range r.activations {
		if a.LicenseID == licenseID && a.HardwareID == hardwareID && a.IsActive {
			result = append(result, a)
		}
	}
	return result, nil
}

func (r *fakeActivationRepo) Update(ctx context.Context, updated *license.Activation) error {
	for i, a := range r.activations {
		if a.ID == updated.ID {
			r.activations[i] = updated
			return nil
		}
	}
	return repository.ErrActivationNotFound
}

// fakeSaleRepo é uma implementação em memória de sale.Repository
type fakeSaleRepo struct {
	sales map[string]*sale.Sale
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: make(map[string]*sale.Sale)}
}

func (r *fakeSaleRepo) Create(ctx context.Context, s *sale.Sale) error {
	r.sales[s.ID] = s
	return nil
}

func (r *fakeSaleRepo) FindByID(ctx context.Context, id string) (*sale.Sale, error) {
	if s, ok := r.sales[id]; ok {
		return s, nil
	}
	return nil, repository.ErrSaleNotFound
}

func (r *fakeSaleRepo) FindByIDForUpdate(ctx context.Context, id string) (*sale.Sale, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeSaleRepo) List(ctx context.Context, tenantID string, limit, offset int) ([]*sale.Sale, error) {
	result := make([]*sale.Sale, 0)
	for _, s := range r.sales {
		if s.TenantID == tenantID {
			result = append(result, s)
		}
	}
	return result, nil
}

func (r *fakeSaleRepo) CountByTenant(ctx context.Context, tenantID string) (int, error) {
	list, _ := r.List(ctx, tenantID, 0, 0)
	return len(list), nil
}

func (r *fakeSaleRepo) UpdateStatus(ctx context.Context, id string, status sale.Status) error {
	s, ok := r.sales[id]
	if !ok {
		return repository.ErrSaleNotFound
	}
	s.Status = status
	return nil
}

// fakeReturnRepo é uma implementação em memória de productreturn.Repository
type fakeReturnRepo struct {
	returns map[string]*productreturn.ProductReturn
}

func newFakeReturnRepo() *fakeReturnRepo {
	return &fakeReturnRepo{returns: make(map[string]*productreturn.ProductReturn)}
}

func (r *fakeReturnRepo) Create(ctx context.Context, pr *productreturn.ProductReturn) error {
	r.returns[pr.ID] = pr
	return nil
}

func (r *fakeReturnRepo) FindByID(ctx context.Context, id string) (*productreturn.ProductReturn, error) {
	if pr, ok := r.returns[id]; ok {
		return pr, nil
	}
	return nil, repository.ErrReturnNotFound
}

func (r *fakeReturnRepo) List(ctx context.Context, tenantID string, filter productreturn.ListFilter, limit, offset int) ([]*productreturn.ProductReturn, error) {
	result := make([]*productreturn.ProductReturn, 0)
	for _, pr := range r.returns {
		if pr.TenantID != tenantID {
			continue
		}
		if filter.Status != "" && pr.Status != filter.Status {
			continue
		}
		result = append(result, pr)
	}
	return result, nil
}

func (r *fakeReturnRepo) Count(ctx context.Context, tenantID string, filter productreturn.ListFilter) (int, error) {
	list, _ := r.List(ctx, tenantID, filter, 0, 0)
	return len(list), nil
}

func (r *fakeReturnRepo) Update(ctx context.Context, pr *productreturn.ProductReturn) error {
	if _, ok := r.returns[pr.ID]; !ok {
		return repository.ErrReturnNotFound
	}
	r.returns[pr.ID] = pr
	return nil
}

func (r *fakeReturnRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.returns[id]; !ok {
		return repository.ErrReturnNotFound
	}
	delete(r.returns, id)
	return nil
}

func (r *fakeReturnRepo) SumReturnedQuantity(ctx context.Context, saleItemID, excludeReturnID string) (int, error) {
	total := 0
	for _, pr := range r.returns {
		if pr.Status == productreturn.StatusCancelled || pr.ID == excludeReturnID {
			continue
		}
		for _, item := range pr.Items {
			if item.SaleItemID == saleItemID {
				total += item.Quantity
			}
		}
	}
	return total, nil
}

func (r *fakeReturnRepo) TotalsByStatus(ctx context.Context, tenantID string, filter productreturn.ListFilter) ([]*productreturn.StatusTotal, error) {
	totals := make(map[productreturn.Status]*productreturn.StatusTotal)
	for _, pr := range r.returns {
		if pr.TenantID != tenantID {
			continue
		}
		t, ok := totals[pr.Status]
		if !ok {
			t = &productreturn.StatusTotal{Status: pr.Status}
			totals[pr.Status] = t
		}
		t.Count++
		t.TotalAmount += pr.TotalAmount
		t.RefundAmount += pr.RefundAmount
	}
	result := make([]*productreturn.StatusTotal, 0, len(totals))
	for _, t := range totals {
		result = append(result, t)
	}
	return result, nil
}

func (r *fakeReturnRepo) TotalsByRefundType(ctx context.Context, tenantID string, filter productreturn.ListFilter) ([]*productreturn.RefundTypeTotal, error) {
	totals := make(map[productreturn.RefundType]*productreturn.RefundTypeTotal)
	for _, pr := range r.returns {
		if pr.TenantID != tenantID {
			continue
		}
		t, ok := totals[pr.RefundType]
		if !ok {
			t = &productreturn.RefundTypeTotal{RefundType: pr.RefundType}
			totals[pr.RefundType] = t
		}
		t.Count++
		t.RefundAmount += pr.RefundAmount
	}
	result := make([]*productreturn.RefundTypeTotal, 0, len(totals))
	for _, t := range totals {
		result = append(result, t)
	}
	return result, nil
}

func (r *fakeReturnRepo) TopReturnedProducts(ctx context.Context, tenantID string, filter productreturn.ListFilter, limit int) ([]*productreturn.ProductTotal, error) {
	totals := make(map[string]*productreturn.ProductTotal)
	for _, pr := range r.returns {
		if pr.TenantID != tenantID {
			continue
		}
		for _, item := range pr.Items {
			t, ok := totals[item.ProductID]
			if !ok {
				t = &productreturn.ProductTotal{ProductID: item.ProductID, ProductName: item.ProductName}
				totals[item.ProductID] = t
			}
			t.Quantity += item.Quantity
			t.Returns++
		}
	}
	result := make([]*productreturn.ProductTotal, 0, len(totals))
	for _, t := range totals {
		result = append(result, t)
	}
	return result, nil
}

// fakeInventoryRepo é uma implementação em memória de inventory.Repository
type fakeInventoryRepo struct {
	items map[string]*inventory.Inventory
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{items: make(map[string]*inventory.Inventory)}
}

func (r *fakeInventoryRepo) Create(ctx context.Context, i *inventory.Inventory) error {
	r.items[i.ID] = i
	return nil
}

func (r *fakeInventoryRepo) FindByProductAndBranch(ctx context.Context, productID, branchID string) (*inventory.Inventory, error) {
	for _, i := range r.items {
		if i.ProductID == productID && i.BranchID == branchID {
			return i, nil
		}
	}
	return nil, repository.ErrInventoryNotFound
}

func (r *fakeInventoryRepo) FindByProductAndBranchForUpdate(ctx context.Context, productID, branchID string) (*inventory.Inventory, error) {
	return r.FindByProductAndBranch(ctx, productID, branchID)
}

func (r *fakeInventoryRepo) ListByBranch(ctx context.Context, branchID string, limit, offset int) ([]*inventory.Inventory, error) {
	result := make([]*inventory.Inventory, 0)
	for _, i := range r.items {
		if i.BranchID == branchID {
			result = append(result, i)
		}
	}
	return result, nil
}

func (r *fakeInventoryRepo) CountByBranch(ctx context.Context, branchID string) (int, error) {
	list, _ := r.ListByBranch(ctx, branchID, 0, 0)
	return len(list), nil
}

func (r *fakeInventoryRepo) AdjustQuantity(ctx context.Context, id string, delta int) error {
	i, ok := r.items[id]
	if !ok {
		return repository.ErrInventoryNotFound
	}
	i.Quantity += delta
	if i.Quantity < 0 {
		i.Quantity = 0
	}
	return nil
}

func (r *fakeInventoryRepo) Update(ctx context.Context, i *inventory.Inventory) error {
	if _, ok := r.items[i.ID]; !ok {
		return repository.ErrInventoryNotFound
	}
	r.items[i.ID] = i
	return nil
}

// fakeMovementRepo é uma implementação em memória de inventory.MovementRepository
type fakeMovementRepo struct {
	movements []*inventory.StockMovement
}

func (r *fakeMovementRepo) Create(ctx context.Context, m *inventory.StockMovement) error {
	r.movements = append(r.movements, m)
	return nil
}

func (r *fakeMovementRepo) FindByReference(ctx context.Context, referenceID string) ([]*inventory.StockMovement, error) {
	result := make([]*inventory.StockMovement, 0)
	for _, m := range r.movements {
		if m.ReferenceID == referenceID {
			result = append(result, m)
		}
	}
	return result, nil
}

func (r *fakeMovementRepo) ListByProduct(ctx context.Context, productID, branchID string, limit, offset int) ([]*inventory.StockMovement, error) {
	result := make([]*inventory.StockMovement, 0)
	for _, m := range r.movements {
		if m.ProductID == productID && m.BranchID == branchID {
			result = append(result, m)
		}
	}
	return result, nil
}

// fakeCustomerRepo é uma implementação em memória de customer.Repository
type fakeCustomerRepo struct {
	customers map[string]*customer.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[string]*customer.Customer)}
}

func (r *fakeCustomerRepo) Create(ctx context.Context, c *customer.Customer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *fakeCustomerRepo) FindByID(ctx context.Context, id string) (*customer.Customer, error) {
	if c, ok := r.customers[id]; ok {
		return c, nil
	}
	return nil, repository.ErrCustomerNotFound
}

func (r *fakeCustomerRepo) FindByIDForUpdate(ctx context.Context, id string) (*customer.Customer, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeCustomerRepo) FindByDocument(ctx context.Context, tenantID, document string) (*customer.Customer, error) {
	for _, c := range r.customers {
		if c.TenantID == tenantID && c.Document == document {
			return c, nil
		}
	}
	return nil, repository.ErrCustomerNotFound
}

func (r *fakeCustomerRepo) List(ctx context.Context, tenantID string, limit, offset int) ([]*customer.Customer, error) {
	result := make([]*customer.Customer, 0)
	for _, c := range r.customers {
		if c.TenantID == tenantID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (r *fakeCustomerRepo) CountByTenant(ctx context.Context, tenantID string) (int, error) {
	list, _ := r.List(ctx, tenantID, 0, 0)
	return len(list), nil
}

func (r *fakeCustomerRepo) Update(ctx context.Context, c *customer.Customer) error {
	if _, ok := r.customers[c.ID]; !ok {
		return repository.ErrCustomerNotFound
	}
	r.customers[c.ID] = c
	return nil
}

func (r *fakeCustomerRepo) UpdateStatus(ctx context.Context, id string, status customer.Status) error {
	c, ok := r.customers[id]
	if !ok {
		return repository.ErrCustomerNotFound
	}
	c.Status = status
	return nil
}

func (r *fakeCustomerRepo) AdjustDueBalance(ctx context.Context, id string, delta float64) error {
	c, ok := r.customers[id]
	if !ok {
		return repository.ErrCustomerNotFound
	}
	c.AdjustDueBalance(delta)
	return nil
}

func (r *fakeCustomerRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.customers[id]; !ok {
		return repository.ErrCustomerNotFound
	}
	delete(r.customers, id)
	return nil
}

func (r *fakeCustomerRepo) ExistsByDocument(ctx context.Context, tenantID, document string) (bool, error) {
	_, err := r.FindByDocument(ctx, tenantID, document)
	return err == nil, nil
}

// newTestTime retorna um ponteiro para um instante relativo a agora
func newTestTime(d time.Duration) *time.Time {
	t := time.Now().Add(d)
	return &t
}
