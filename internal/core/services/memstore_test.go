package services_test

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/SscSPs/business_management_app/internal/apperrors"
	"github.com/SscSPs/business_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/business_management_app/internal/core/ports/repositories"
)

// memStore keeps the business tables and their history in memory. It enforces the same uniqueness rules as the database
// indexes: one active assignment per (order, worker), one live sync task per
// (worker, order), one derived debt per source and one open auto task per
// related entity.
type memStore struct {
	mu            sync.Mutex
	orders        map[string]domain.Order
	statuses      []domain.OrderStatus
	workers       map[string]domain.Worker
	evaluations   []domain.WorkerEvaluation
	assignments   []domain.OrderAssignment
	tasks         []domain.Task
	debts         []domain.Debt
	expenses      map[string]domain.Expense
	transports    map[string]domain.Transport
	records       []domain.WorkerMonthlyRecord
	orderHistory  []domain.OrderHistory
	workerHistory []domain.WorkerHistory
}

func newMemStore() *memStore {
	return &memStore{
		orders:     map[string]domain.Order{},
		workers:    map[string]domain.Worker{},
		expenses:   map[string]domain.Expense{},
		transports: map[string]domain.Transport{},
		statuses: []domain.OrderStatus{
			{StatusID: 1, Name: domain.StatusWaiting, IsSystem: true},
			{StatusID: 2, Name: domain.StatusInProgress, IsSystem: true},
			{StatusID: 3, Name: domain.StatusAssignedToWorker, IsSystem: true},
		},
	}
}

func (m *memStore) provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:      m,
		OrderRepo:      m,
		WorkerRepo:     m,
		AssignmentRepo: m,
		TaskRepo:       m,
		DebtRepo:       m,
		ExpenseRepo:    m,
		TransportRepo:  m,
		HistoryRepo:    m,
		ReportRepo:     m,
	}
}

// RunInTx runs fn directly; the store has no rollback.
func (m *memStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- orders ---

func (m *memStore) FindOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return nil, apperrors.NewNotFoundError("order " + orderID)
	}
	return &o, nil
}

func (m *memStore) FindOrderByIDForUpdate(ctx context.Context, orderID string) (*domain.Order, error) {
	return m.FindOrderByID(ctx, orderID)
}

func (m *memStore) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, *string, error) {
	orders, err := m.ListAllOrders(ctx)
	return orders, nil, err
}

func (m *memStore) ListAllOrders(ctx context.Context) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, o)
	}
	return out, nil
}

func (m *memStore) ListStalledOrders(ctx context.Context, createdBefore time.Time) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for _, o := range m.orders {
		if o.StatusID != nil && o.ActualDeliveryDate == nil && o.CreatedAt.Before(createdBefore) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memStore) ListOrderDebtSummaries(ctx context.Context) ([]domain.OrderDebtSummary, error) {
	return nil, nil
}

func (m *memStore) SaveOrder(ctx context.Context, order domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.OrderID] = order
	return nil
}

func (m *memStore) UpdateOrder(ctx context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.orders[order.OrderID]
	if !ok {
		return apperrors.NewNotFoundError("order " + order.OrderID)
	}
	if current.Version != order.Version {
		return apperrors.NewStaleVersionError("order was modified")
	}
	order.Version++
	m.orders[order.OrderID] = *order
	return nil
}

func (m *memStore) DeleteOrder(ctx context.Context, orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.orders, orderID)
	return nil
}

func (m *memStore) ListStatuses(ctx context.Context) ([]domain.OrderStatus, error) {
	return m.statuses, nil
}

func (m *memStore) FindStatusByID(ctx context.Context, statusID int) (*domain.OrderStatus, error) {
	for _, s := range m.statuses {
		if s.StatusID == statusID {
			return &s, nil
		}
	}
	return nil, apperrors.NewNotFoundError("status")
}

func (m *memStore) FindStatusByName(ctx context.Context, name string) (*domain.OrderStatus, error) {
	for _, s := range m.statuses {
		if s.Name == name {
			return &s, nil
		}
	}
	return nil, apperrors.NewNotFoundError("status " + name)
}

func (m *memStore) SaveStatus(ctx context.Context, status domain.OrderStatus) (*domain.OrderStatus, error) {
	status.StatusID = len(m.statuses) + 1
	m.statuses = append(m.statuses, status)
	return &status, nil
}

// --- workers ---

func (m *memStore) FindWorkerByID(ctx context.Context, workerID string) (*domain.Worker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.workers[workerID]
	if !ok {
		return nil, apperrors.NewNotFoundError("worker " + workerID)
	}
	return &w, nil
}

func (m *memStore) FindWorkerByIDForUpdate(ctx context.Context, workerID string) (*domain.Worker, error) {
	return m.FindWorkerByID(ctx, workerID)
}

func (m *memStore) FindWorkerByUsername(ctx context.Context, username string) (*domain.Worker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.workers {
		if w.Username != nil && *w.Username == username {
			return &w, nil
		}
	}
	return nil, apperrors.NewNotFoundError("worker " + username)
}

func (m *memStore) ListWorkers(ctx context.Context, includeInactive bool) ([]domain.Worker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Worker
	for _, w := range m.workers {
		if includeInactive || w.IsActive {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *memStore) ListIdleWorkers(ctx context.Context) ([]domain.Worker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Worker
	for _, w := range m.workers {
		if !w.IsActive || !w.MonthlySalary.IsPositive() {
			continue
		}
		busy := slices.ContainsFunc(m.assignments, func(a domain.OrderAssignment) bool {
			return a.IsActive && a.WorkerID == w.WorkerID
		})
		if !busy {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *memStore) ListEvaluations(ctx context.Context, workerID string) ([]domain.WorkerEvaluation, error) {
	return m.evaluations, nil
}

func (m *memStore) SaveWorker(ctx context.Context, worker domain.Worker) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workers[worker.WorkerID] = worker
	return nil
}

func (m *memStore) UpdateWorker(ctx context.Context, worker *domain.Worker) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	worker.Version++
	m.workers[worker.WorkerID] = *worker
	return nil
}

func (m *memStore) SaveEvaluation(ctx context.Context, evaluation domain.WorkerEvaluation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evaluations = append(m.evaluations, evaluation)
	return nil
}

// --- assignments ---

func (m *memStore) FindAssignmentByID(ctx context.Context, assignmentID string) (*domain.OrderAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.assignments {
		if a.AssignmentID == assignmentID {
			return &a, nil
		}
	}
	return nil, apperrors.NewNotFoundError("assignment " + assignmentID)
}

func (m *memStore) ListAssignmentsByOrder(ctx context.Context, orderID string) ([]domain.OrderAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.OrderAssignment
	for _, a := range m.assignments {
		if a.OrderID == orderID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) ListActiveAssignments(ctx context.Context) ([]domain.OrderAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.OrderAssignment
	for _, a := range m.assignments {
		if a.IsActive {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) ListActiveAssignmentsByWorker(ctx context.Context, workerID string) ([]domain.OrderAssignment, error) {
	active, _ := m.ListActiveAssignments(ctx)
	return slices.DeleteFunc(active, func(a domain.OrderAssignment) bool { return a.WorkerID != workerID }), nil
}

func (m *memStore) DeactivateActiveAssignment(ctx context.Context, orderID, workerID string, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for i, a := range m.assignments {
		if a.IsActive && a.OrderID == orderID && a.WorkerID == workerID {
			m.assignments[i].IsActive = false
			m.assignments[i].CompletedDate = &now
			n++
		}
	}
	return n, nil
}

func (m *memStore) SaveAssignment(ctx context.Context, assignment domain.OrderAssignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.assignments {
		if a.IsActive && a.OrderID == assignment.OrderID && a.WorkerID == assignment.WorkerID {
			return apperrors.NewConflictError("active assignment exists")
		}
	}
	m.assignments = append(m.assignments, assignment)
	return nil
}

func (m *memStore) DeactivateAssignment(ctx context.Context, assignmentID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, a := range m.assignments {
		if a.AssignmentID == assignmentID {
			m.assignments[i].IsActive = false
			m.assignments[i].CompletedDate = &now
			return nil
		}
	}
	return apperrors.NewNotFoundError("assignment " + assignmentID)
}

func (m *memStore) activeAssignments(orderID, workerID string) int {
	active, _ := m.ListActiveAssignments(context.Background())
	n := 0
	for _, a := range active {
		if a.OrderID == orderID && a.WorkerID == workerID {
			n++
		}
	}
	return n
}

// --- tasks ---

func (m *memStore) taskIndex(taskID string) int {
	return slices.IndexFunc(m.tasks, func(t domain.Task) bool { return t.TaskID == taskID })
}

func (m *memStore) FindTaskByID(ctx context.Context, taskID string) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.taskIndex(taskID)
	if i < 0 {
		return nil, apperrors.NewNotFoundError("task " + taskID)
	}
	t := m.tasks[i]
	return &t, nil
}

func (m *memStore) FindTaskByIDForUpdate(ctx context.Context, taskID string) (*domain.Task, error) {
	return m.FindTaskByID(ctx, taskID)
}

func (m *memStore) ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, *string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Task
	for _, t := range m.tasks {
		if !filter.IncludeArchived && t.Archived {
			continue
		}
		if filter.WorkerID != nil && (t.WorkerID == nil || *t.WorkerID != *filter.WorkerID) {
			continue
		}
		if !filter.AdminsView && t.VisibilityScope == domain.VisibilityAdminsOnly {
			continue
		}
		out = append(out, t)
	}
	return out, nil, nil
}

func (m *memStore) FindOpenTaskByRelated(ctx context.Context, ref domain.EntityRef, taskType domain.TaskType) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tasks {
		if t.IsOpen() && t.TaskType == taskType && t.Related != nil && *t.Related == ref {
			return &t, nil
		}
	}
	return nil, apperrors.NewNotFoundError("open task")
}

func (m *memStore) ListUrgentTasks(ctx context.Context, limit int) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Task
	for _, t := range m.tasks {
		if t.IsUrgent() && !t.Archived {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memStore) GetTaskStats(ctx context.Context, now time.Time) (*domain.TaskStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &domain.TaskStats{}
	for _, t := range m.tasks {
		if t.Archived {
			continue
		}
		stats.Total++
		switch t.Status {
		case domain.TaskPending:
			stats.Pending++
		case domain.TaskInProgress:
			stats.InProgress++
		case domain.TaskSuspended:
			stats.Suspended++
		case domain.TaskCompleted:
			stats.Completed++
		}
	}
	return stats, nil
}

func (m *memStore) SaveTask(ctx context.Context, task domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, task)
	return nil
}

func (m *memStore) UpdateTask(ctx context.Context, task *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.taskIndex(task.TaskID)
	if i < 0 {
		return apperrors.NewNotFoundError("task " + task.TaskID)
	}
	if m.tasks[i].Version != task.Version {
		return apperrors.NewStaleVersionError("task was modified")
	}
	task.Version++
	m.tasks[i] = *task
	return nil
}

func isLiveSync(t domain.Task, workerID string, ref domain.EntityRef) bool {
	return t.TaskType == domain.TaskTypeOrderCompletion &&
		slices.Contains(domain.SyncTaskStatuses, t.Status) &&
		t.WorkerID != nil && *t.WorkerID == workerID &&
		t.Related != nil && *t.Related == ref
}

func (m *memStore) UpsertSyncTask(ctx context.Context, task domain.Task) (*domain.Task, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.tasks {
		if isLiveSync(t, *task.WorkerID, *task.Related) {
			m.tasks[i].Description = task.Description
			m.tasks[i].AssignedTo = task.AssignedTo
			m.tasks[i].AssignmentType = task.AssignmentType
			m.tasks[i].DueDate = task.DueDate
			m.tasks[i].Notes = task.Notes
			m.tasks[i].Version++
			out := m.tasks[i]
			return &out, false, nil
		}
	}
	m.tasks = append(m.tasks, task)
	return &task, true, nil
}

func (m *memStore) InsertAutoTask(ctx context.Context, task domain.Task) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tasks {
		if t.IsOpen() && t.Related != nil && *t.Related == *task.Related {
			return false, nil
		}
	}
	m.tasks = append(m.tasks, task)
	return true, nil
}

func (m *memStore) ArchiveFinishedTasks(ctx context.Context, actorID string, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for i, t := range m.tasks {
		if !t.Archived && !t.WaitingApproval && (t.Status == domain.TaskCompleted || t.Status == domain.TaskCancelled) {
			m.tasks[i].Archived = true
			n++
		}
	}
	return n, nil
}

func (m *memStore) CancelSyncTasks(ctx context.Context, workerID, orderID, actorID string, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ref := domain.EntityRef{Type: domain.EntityOrder, ID: orderID}
	var n int64
	for i, t := range m.tasks {
		if isLiveSync(t, workerID, ref) && !t.Archived {
			m.tasks[i].Status = domain.TaskCancelled
			m.tasks[i].Version++
			n++
		}
	}
	return n, nil
}

func (m *memStore) openSyncTasks(workerID, orderID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	ref := domain.EntityRef{Type: domain.EntityOrder, ID: orderID}
	n := 0
	for _, t := range m.tasks {
		if isLiveSync(t, workerID, ref) {
			n++
		}
	}
	return n
}

// --- debts ---

func (m *memStore) debtIndex(debtID string) int {
	return slices.IndexFunc(m.debts, func(d domain.Debt) bool { return d.DebtID == debtID })
}

func (m *memStore) FindDebtByID(ctx context.Context, debtID string) (*domain.Debt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.debtIndex(debtID)
	if i < 0 {
		return nil, apperrors.NewNotFoundError("debt " + debtID)
	}
	d := m.debts[i]
	return &d, nil
}

func (m *memStore) FindDebtByIDForUpdate(ctx context.Context, debtID string) (*domain.Debt, error) {
	return m.FindDebtByID(ctx, debtID)
}

func (m *memStore) FindDebtBySource(ctx context.Context, source domain.EntityRef) (*domain.Debt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.debts {
		if d.Source != nil && *d.Source == source {
			return &d, nil
		}
	}
	return nil, apperrors.NewNotFoundError("debt for " + source.String())
}

func (m *memStore) ListDebts(ctx context.Context, filter domain.DebtFilter) ([]domain.Debt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.debts), nil
}

func (m *memStore) ListUnpaidDebtsByOrder(ctx context.Context, orderID string) ([]domain.Debt, error) {
	return nil, nil
}

func (m *memStore) ListOverdueDebts(ctx context.Context, startedBefore time.Time) ([]domain.Debt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Debt
	for _, d := range m.debts {
		if d.Status != domain.DebtPaid && d.StartDate.Before(startedBefore) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memStore) SaveDebt(ctx context.Context, debt domain.Debt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.debts = append(m.debts, debt)
	return nil
}

func (m *memStore) SaveDerivedDebt(ctx context.Context, debt domain.Debt) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.debts {
		if d.Source != nil && *d.Source == *debt.Source {
			return false, nil
		}
	}
	m.debts = append(m.debts, debt)
	return true, nil
}

func (m *memStore) UpdateDebt(ctx context.Context, debt *domain.Debt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.debtIndex(debt.DebtID)
	if i < 0 {
		return apperrors.NewNotFoundError("debt " + debt.DebtID)
	}
	debt.Version++
	m.debts[i] = *debt
	return nil
}

func (m *memStore) DeleteDebt(ctx context.Context, debtID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.debts = slices.DeleteFunc(m.debts, func(d domain.Debt) bool { return d.DebtID == debtID })
	return nil
}

// --- expenses ---

func (m *memStore) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.expenses[expenseID]
	if !ok {
		return nil, apperrors.NewNotFoundError("expense " + expenseID)
	}
	return &e, nil
}

func (m *memStore) ListExpenses(ctx context.Context, limit, offset int) ([]domain.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Expense, 0, len(m.expenses))
	for _, e := range m.expenses {
		out = append(out, e)
	}
	return out, nil
}

func (m *memStore) ListExpensesByOrder(ctx context.Context, orderID string) ([]domain.Expense, error) {
	all, _ := m.ListExpenses(ctx, 0, 0)
	return slices.DeleteFunc(all, func(e domain.Expense) bool { return e.OrderID == nil || *e.OrderID != orderID }), nil
}

func (m *memStore) SaveExpense(ctx context.Context, expense domain.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expenses[expense.ExpenseID] = expense
	return nil
}

func (m *memStore) UpdateExpense(ctx context.Context, expense *domain.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	expense.Version++
	m.expenses[expense.ExpenseID] = *expense
	return nil
}

func (m *memStore) DeleteExpense(ctx context.Context, expenseID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.expenses, expenseID)
	return nil
}

// --- history ---

func (m *memStore) SaveOrderHistory(ctx context.Context, entry domain.OrderHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orderHistory = append(m.orderHistory, entry)
	return nil
}

func (m *memStore) ListOrderHistory(ctx context.Context, orderID string) ([]domain.OrderHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.OrderHistory
	for _, h := range m.orderHistory {
		if h.OrderID == orderID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *memStore) SaveWorkerHistory(ctx context.Context, entry domain.WorkerHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workerHistory = append(m.workerHistory, entry)
	return nil
}

func (m *memStore) ListWorkerHistory(ctx context.Context, workerID string) ([]domain.WorkerHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.WorkerHistory
	for _, h := range m.workerHistory {
		if h.WorkerID == workerID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *memStore) ListActivity(ctx context.Context, filter domain.ActivityFilter) ([]domain.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inRange := func(ts time.Time) bool {
		return (filter.From == nil || !ts.Before(*filter.From)) && (filter.To == nil || !ts.After(*filter.To))
	}
	var out []domain.Activity
	if filter.Source != domain.EntityWorker {
		for _, h := range m.orderHistory {
			if inRange(h.Timestamp) {
				out = append(out, domain.Activity{
					Kind:       domain.ClassifyActivity(domain.EntityOrder, h.ChangeType),
					Subject:    domain.EntityRef{Type: domain.EntityOrder, ID: h.OrderID},
					ChangeType: h.ChangeType,
					Details:    h.Details,
					Actor:      h.Actor,
					Timestamp:  h.Timestamp,
				})
			}
		}
	}
	if filter.Source != domain.EntityOrder {
		for _, h := range m.workerHistory {
			if inRange(h.Timestamp) {
				amount := h.Amount
				out = append(out, domain.Activity{
					Kind:       domain.ClassifyActivity(domain.EntityWorker, h.ChangeType),
					Subject:    domain.EntityRef{Type: domain.EntityWorker, ID: h.WorkerID},
					ChangeType: h.ChangeType,
					Details:    h.Details,
					Amount:     &amount,
					Actor:      h.Actor,
					Timestamp:  h.Timestamp,
				})
			}
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Activity) int { return b.Timestamp.Compare(a.Timestamp) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// --- transports ---

func (m *memStore) FindTransportByID(ctx context.Context, transportID string) (*domain.Transport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.transports[transportID]
	if !ok {
		return nil, apperrors.NewNotFoundError("transport " + transportID)
	}
	return &t, nil
}

func (m *memStore) ListTransports(ctx context.Context, limit, offset int) ([]domain.Transport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Transport, 0, len(m.transports))
	for _, t := range m.transports {
		out = append(out, t)
	}
	return out, nil
}

func (m *memStore) ListTransportsByOrder(ctx context.Context, orderID string) ([]domain.Transport, error) {
	all, _ := m.ListTransports(ctx, 0, 0)
	return slices.DeleteFunc(all, func(t domain.Transport) bool { return t.OrderID == nil || *t.OrderID != orderID }), nil
}

func (m *memStore) SaveTransport(ctx context.Context, transport domain.Transport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transports[transport.TransportID] = transport
	return nil
}

func (m *memStore) UpdateTransport(ctx context.Context, transport *domain.Transport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	transport.Version++
	m.transports[transport.TransportID] = *transport
	return nil
}

func (m *memStore) DeleteTransport(ctx context.Context, transportID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.transports, transportID)
	return nil
}

// --- monthly records ---

// SaveMonthlyRecord adds to the paid amount of an existing (worker, year, month)
// record like the uq_worker_month upsert does.
func (m *memStore) SaveMonthlyRecord(ctx context.Context, record domain.WorkerMonthlyRecord) (*domain.WorkerMonthlyRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.records {
		if r.WorkerID == record.WorkerID && r.Year == record.Year && r.Month == record.Month {
			m.records[i].PaidAmount = r.PaidAmount.Add(record.PaidAmount)
			m.records[i].Notes = record.Notes
			out := m.records[i]
			return &out, nil
		}
	}
	m.records = append(m.records, record)
	return &record, nil
}

func (m *memStore) ListMonthlyRecords(ctx context.Context, workerID string) ([]domain.WorkerMonthlyRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.WorkerMonthlyRecord
	for _, r := range m.records {
		if r.WorkerID == workerID {
			out = append(out, r)
		}
	}
	return out, nil
}

// --- reports ---

func (m *memStore) FinancialTotals(ctx context.Context, period domain.ReportPeriod) (*domain.FinancialTotals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	in := func(ts time.Time) bool { return !ts.Before(period.From) && !ts.After(period.To) }
	t := &domain.FinancialTotals{}
	for _, o := range m.orders {
		if !in(o.CreatedAt) {
			continue
		}
		t.OrdersCount++
		t.OrdersRevenue = t.OrdersRevenue.Add(o.Total)
		t.OrdersPaid = t.OrdersPaid.Add(o.Paid)
		if o.IsPaid {
			t.PaidOrdersTotal = t.PaidOrdersTotal.Add(o.Total)
		} else {
			t.UnpaidOrdersTotal = t.UnpaidOrdersTotal.Add(o.Total)
		}
	}
	for _, e := range m.expenses {
		if in(e.PurchaseDate) {
			t.Purchases = t.Purchases.Add(e.TotalAmount)
		}
	}
	for _, tr := range m.transports {
		if in(tr.TransportDate) {
			t.Transport = t.Transport.Add(tr.TransportAmount)
		}
	}
	for _, d := range m.debts {
		t.DebtTotal = t.DebtTotal.Add(d.DebtAmount)
		t.DebtPaid = t.DebtPaid.Add(d.PaidAmount)
	}
	return t, nil
}

func (m *memStore) ListExpensesInPeriod(ctx context.Context, period domain.ReportPeriod, category string) ([]domain.Expense, error) {
	all, _ := m.ListExpenses(ctx, 0, 0)
	return slices.DeleteFunc(all, func(e domain.Expense) bool {
		return e.PurchaseDate.Before(period.From) || e.PurchaseDate.After(period.To) ||
			(category != "" && e.Category != category)
	}), nil
}

func (m *memStore) CountEndedAssignments(ctx context.Context) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[string]int{}
	for _, a := range m.assignments {
		if !a.IsActive {
			counts[a.WorkerID]++
		}
	}
	return counts, nil
}
