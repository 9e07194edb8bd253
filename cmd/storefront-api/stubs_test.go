package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/heyireeh/storefront-api/internal/category"
	"github.com/heyireeh/storefront-api/internal/httpx"
	"github.com/heyireeh/storefront-api/internal/order"
	"github.com/heyireeh/storefront-api/internal/product"
	"github.com/heyireeh/storefront-api/internal/user"
)

//
// ---------- STUBS & HELPERS ----------
//

// asUser injects the identity the auth middleware would have extracted.
func asUser(id, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(httpx.CtxUserID, id)
		c.Set(httpx.CtxRole, role)
		c.Next()
	}
}

func doJSON(h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	h.ServeHTTP(w, req)
	return w
}

// stubUserRepo implements user.Repository in memory. A non-nil failWith makes
// every lookup report a store failure.
type stubUserRepo struct {
	mu       sync.Mutex
	byID     map[string]*user.User
	index    map[string]string // email -> id
	failWith error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: map[string]*user.User{}, index: map[string]string{}}
}

func (s *stubUserRepo) Create(ctx context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.index[u.Email]; dup {
		return user.ErrAlreadyExist
	}
	cp := *u
	cp.CreatedAt = time.Now()
	s.byID[u.ID] = &cp
	s.index[u.Email] = u.ID
	return nil
}

func (s *stubUserRepo) GetByID(ctx context.Context, id string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	id, ok := s.index[email]
	if !ok {
		return nil, user.ErrNotFound
	}
	return s.byID[id], nil
}

func (s *stubUserRepo) HasAdmin(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if u.Role == "admin" {
			return true, nil
		}
	}
	return false, nil
}

// stubProductRepo implements product.Repository in memory with the same
// filter/sort/pagination semantics as the SQL version. A non-nil failWith
// makes every lookup report a store failure.
type stubProductRepo struct {
	mu       sync.Mutex
	items    []product.Product
	failWith error
}

func (s *stubProductRepo) Create(ctx context.Context, p *product.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	cp.CreatedAt = time.Now().Add(time.Duration(len(s.items)) * time.Millisecond)
	s.items = append(s.items, cp)
	return nil
}

func (s *stubProductRepo) GetByID(ctx context.Context, id string) (*product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	for i := range s.items {
		if s.items[i].ID == id {
			cp := s.items[i]
			return &cp, nil
		}
	}
	return nil, product.ErrNotFound
}

func (s *stubProductRepo) List(ctx context.Context, q product.Query) ([]product.Product, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []product.Product
	for _, p := range s.items {
		if q.CategoryID != "" && p.CategoryID != q.CategoryID {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q.Search)) {
			continue
		}
		matched = append(matched, p)
	}
	priceOf := func(p product.Product) decimal.Decimal {
		d, _ := decimal.NewFromString(p.Price)
		return d
	}
	switch q.Sort {
	case product.SortPriceLow:
		sort.SliceStable(matched, func(i, j int) bool { return priceOf(matched[i]).LessThan(priceOf(matched[j])) })
	case product.SortPriceHigh:
		sort.SliceStable(matched, func(i, j int) bool { return priceOf(matched[j]).LessThan(priceOf(matched[i])) })
	default:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	}
	total := len(matched)

	page := q.Page
	if page < 1 {
		page = 1
	}
	lo := (page - 1) * product.PageSize
	if lo > total {
		lo = total
	}
	hi := lo + product.PageSize
	if hi > total {
		hi = total
	}
	return matched[lo:hi], total, nil
}

func (s *stubProductRepo) Update(ctx context.Context, p *product.Product, updatePrice, updateStock bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == p.ID {
			if p.Name != "" {
				s.items[i].Name = p.Name
			}
			if p.Description != "" {
				s.items[i].Description = p.Description
			}
			if updatePrice {
				s.items[i].Price = p.Price
			}
			if updateStock {
				s.items[i].Stock = p.Stock
			}
			return nil
		}
	}
	return product.ErrNotFound
}

func (s *stubProductRepo) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// stubCategoryRepo implements category.Repository in memory.
type stubCategoryRepo struct {
	mu         sync.Mutex
	items      []category.Category
	referenced map[string]bool // category id -> has products
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{referenced: map[string]bool{}}
}

func (s *stubCategoryRepo) Create(ctx context.Context, c *category.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if existing.Name == c.Name {
			return category.ErrAlreadyExist
		}
	}
	s.items = append(s.items, *c)
	return nil
}

func (s *stubCategoryRepo) GetByID(ctx context.Context, id string) (*category.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			cp := s.items[i]
			return &cp, nil
		}
	}
	return nil, category.ErrNotFound
}

func (s *stubCategoryRepo) List(ctx context.Context) ([]category.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]category.Category(nil), s.items...), nil
}

func (s *stubCategoryRepo) Update(ctx context.Context, c *category.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == c.ID {
			if c.Name != "" {
				s.items[i].Name = c.Name
			}
			s.items[i].SubCategories = c.SubCategories
			return nil
		}
	}
	return category.ErrNotFound
}

func (s *stubCategoryRepo) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.referenced[id] {
		return category.ErrInUse
	}
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return category.ErrNotFound
}

// stubOrderRepo implements order.Repository with the same consistency rules
// and failure precedence as the SQL version: unknown product, then replay,
// then stock, then payment, with the decrement under a lock.
type stubOrderRepo struct {
	mu       sync.Mutex
	stock    map[string]int
	names    map[string]string
	prices   map[string]string
	profiles map[string]user.Profile
	orders   []order.Order
	byKey    map[string]string // idempotency key -> order id
	seq      int
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{
		stock:    map[string]int{},
		names:    map[string]string{},
		prices:   map[string]string{},
		profiles: map[string]user.Profile{},
		byKey:    map[string]string{},
	}
}

func (s *stubOrderRepo) addProduct(id, name, price string, stock int) {
	s.stock[id] = stock
	s.names[id] = name
	s.prices[id] = price
}

func (s *stubOrderRepo) find(id string) *order.Order {
	for i := range s.orders {
		if s.orders[i].ID == id {
			return &s.orders[i]
		}
	}
	return nil
}

func (s *stubOrderRepo) Create(ctx context.Context, o *order.Order) (*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, ok := s.names[o.Product.ProductID]
	if !ok {
		return nil, order.ErrProductNotFound
	}
	if prev, seen := s.byKey[o.IdempotencyKey]; seen {
		cp := *s.find(prev)
		return &cp, nil
	}
	if s.stock[o.Product.ProductID] <= 0 {
		return nil, order.ErrOutOfStock
	}
	if o.PaymentStatus != order.PaymentSuccess {
		return nil, order.ErrPaymentRejected
	}
	s.stock[o.Product.ProductID]--

	cp := *o
	cp.Product.Name = name
	if cp.Product.Price == "" {
		cp.Product.Price = s.prices[o.Product.ProductID]
	}
	s.seq++
	cp.CreatedAt = time.Now().Add(time.Duration(s.seq) * time.Millisecond)
	s.orders = append(s.orders, cp)
	s.byKey[cp.IdempotencyKey] = cp.ID
	return &cp, nil
}

func (s *stubOrderRepo) GetByID(ctx context.Context, id string) (*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.find(id)
	if o == nil {
		return nil, order.ErrNotFound
	}
	cp := *o
	if p, ok := s.profiles[o.UserID]; ok {
		cp.User = &p
	}
	return &cp, nil
}

func (s *stubOrderRepo) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []order.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *stubOrderRepo) ListAll(ctx context.Context) ([]order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]order.Order(nil), s.orders...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	for i := range out {
		if p, ok := s.profiles[out[i].UserID]; ok {
			cp := p
			out[i].User = &cp
		}
	}
	return out, nil
}

func (s *stubOrderRepo) UpdateStatus(ctx context.Context, id string, from, to order.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.find(id)
	if o == nil || o.Status != from {
		return order.ErrNotFound
	}
	o.Status = to
	return nil
}
