package user

import (
	"context"
	"reflect"
	"sync"

	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/entity"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/model"
)

type Loader func(ctx context.Context, id int64) (*model.User, error)

var userType = reflect.TypeOf(model.User{})

// LazyUser stands in for a model.User known only by identity. It compares
// equal to the loaded record with the same identity.
type LazyUser struct {
	id     int64
	loader Loader

	mu     sync.Mutex
	target *model.User
}

func NewLazyUser(id int64, loader Loader) *LazyUser {
	return &LazyUser{id: id, loader: loader}
}

func (p *LazyUser) Identity() (int64, bool) {
	return p.id, true
}

func (p *LazyUser) ProxiedType() reflect.Type {
	return userType
}

// Load fetches the record on first use. Failed loads are not cached.
func (p *LazyUser) Load(ctx context.Context) (*model.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.target != nil {
		return p.target, nil
	}

	u, err := p.loader(ctx, p.id)
	if err != nil {
		return nil, err
	}
	p.target = u
	return u, nil
}

func (p *LazyUser) Loaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.target != nil
}

func (p *LazyUser) Equal(other any) bool {
	return entity.Equal(p, other)
}

func (p *LazyUser) HashCode() int {
	return entity.Hash(p)
}
