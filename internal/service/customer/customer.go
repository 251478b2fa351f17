package customer

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/Alijeyrad/halisaha_backend/internal/repo"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type Request struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	IsSubscriber  bool   `json:"isSubscriber"`
	DepositAmount string `json:"depositAmount"`
	DepositDate   string `json:"depositDate"`
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	// List returns customers sorted by name. A non-empty query keeps those
	// whose name contains it (case-insensitive) or whose phone contains it.
	List(ctx context.Context, query string) ([]repo.Customer, error)
	Get(ctx context.Context, id string) (*repo.Customer, error)
	Create(ctx context.Context, req Request) (*repo.Customer, error)
	Update(ctx context.Context, id string, req Request) (*repo.Customer, error)
	// Delete removes the customer and every subscription that points at it.
	Delete(ctx context.Context, id string) error
	WhatsAppLink(ctx context.Context, id, message string) (string, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type customerService struct {
	store  repo.Store
	region string
}

func New(store repo.Store, phoneRegion string) Service {
	return &customerService{store: store, region: phoneRegion}
}

func (s *customerService) List(ctx context.Context, query string) ([]repo.Customer, error) {
	all, err := s.store.ListCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}

	q := strings.TrimSpace(query)
	out := all
	if q != "" {
		key := FoldName(q)
		out = make([]repo.Customer, 0, len(all))
		for _, c := range all {
			if strings.Contains(FoldName(c.Name), key) || strings.Contains(c.Phone, q) {
				out = append(out, c)
			}
		}
	}

	slices.SortStableFunc(out, func(a, b repo.Customer) int {
		return strings.Compare(FoldName(a.Name), FoldName(b.Name))
	})
	return out, nil
}

func (s *customerService) Get(ctx context.Context, id string) (*repo.Customer, error) {
	c, err := s.store.GetCustomer(ctx, id)
	if repo.IsNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

func (s *customerService) Create(ctx context.Context, req Request) (*repo.Customer, error) {
	c, err := s.prepare(ctx, req, "")
	if err != nil {
		return nil, err
	}

	id, err := s.store.CreateCustomer(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	slog.InfoContext(ctx, "customer created", "id", id)
	return s.Get(ctx, id)
}

func (s *customerService) Update(ctx context.Context, id string, req Request) (*repo.Customer, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	c, err := s.prepare(ctx, req, id)
	if err != nil {
		return nil, err
	}

	err = s.store.UpdateCustomer(ctx, id, c)
	if repo.IsNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *customerService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	subs, err := s.store.ListSubscriptions(ctx)
	if err != nil {
		return fmt.Errorf("list subscriptions: %w", err)
	}
	removed := 0
	for _, sub := range subs {
		if sub.CustomerID != id {
			continue
		}
		if err := s.store.DeleteSubscription(ctx, sub.ID); err != nil && !repo.IsNotFound(err) {
			return fmt.Errorf("delete subscription %s: %w", sub.ID, err)
		}
		removed++
	}

	err = s.store.DeleteCustomer(ctx, id)
	if repo.IsNotFound(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	slog.InfoContext(ctx, "customer deleted", "id", id, "subscriptions", removed)
	return nil
}

func (s *customerService) WhatsAppLink(ctx context.Context, id, message string) (string, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return WhatsAppLink(c.Phone, s.region, message)
}

func (s *customerService) prepare(ctx context.Context, req Request, exceptID string) (repo.Customer, error) {
	c := repo.Customer{
		Name:          strings.Join(strings.Fields(req.Name), " "),
		Phone:         strings.TrimSpace(req.Phone),
		IsSubscriber:  req.IsSubscriber,
		DepositAmount: strings.TrimSpace(req.DepositAmount),
		DepositDate:   strings.TrimSpace(req.DepositDate),
	}
	if c.Name == "" {
		return c, ErrMissingName
	}
	if c.Phone == "" {
		return c, ErrMissingPhone
	}

	existing, err := s.store.ListCustomers(ctx)
	if err != nil {
		return c, fmt.Errorf("list customers: %w", err)
	}
	if err := CheckDuplicate(c.Name, c.Phone, existing, exceptID); err != nil {
		return c, err
	}
	return c, nil
}
