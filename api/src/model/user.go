package model

import (
	"fmt"
	"strconv"

	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/entity"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/pkg/utilities"
)

// User is the persisted user record. ID stays nil until the record is first
// saved; the store enforces username uniqueness, the entity does not.
type User struct {
	ID        *int64 `gorm:"primaryKey;autoIncrement:false"`
	Username  string `gorm:"uniqueIndex:idx_users_username,where:username <> ''"`
	Firstname string
	Lastname  string
}

func NewUser() *User {
	return &User{}
}

func NewUserWithID(id int64) *User {
	u := &User{}
	u.SetID(id)
	return u
}

func NewUnsaved(firstname, lastname string) *User {
	return &User{Firstname: firstname, Lastname: lastname}
}

func (User) TableName() string {
	return "users"
}

func (u User) Identity() (int64, bool) {
	if u.ID == nil {
		return 0, false
	}
	return *u.ID, true
}

func (u *User) GetID() *int64 {
	return u.ID
}

// SetID is for construction and migration; a persisted identity must not change.
func (u *User) SetID(id int64) {
	u.ID = &id
}

// ClearID returns the record to the unsaved state so it can be given a new identity.
func (u *User) ClearID() {
	u.ID = nil
}

func (u *User) IsNew() bool {
	return entity.IsNew(u)
}

func (u *User) Equal(other any) bool {
	return entity.Equal(u, other)
}

func (u *User) HashCode() int {
	if u == nil {
		return 0
	}
	return entity.Hash(u)
}

func (u *User) String() string {
	id := "null"
	if u.ID != nil {
		id = strconv.FormatInt(*u.ID, 10)
	}
	return fmt.Sprintf("Entity of type %T with id: %s", *u, id)
}

// UserRegisteredEvent is published once a user has been stored.
type UserRegisteredEvent struct {
	EventId   string `json:"event_id"`
	UserId    string `json:"user_id"`
	Username  string `json:"username"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

func NewUserRegisteredEvent(eventId string, u *User) UserRegisteredEvent {
	id, _ := u.Identity()
	return UserRegisteredEvent{
		EventId:   eventId,
		UserId:    strconv.FormatInt(id, 10),
		Username:  u.Username,
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
	}
}

func (e UserRegisteredEvent) Serialize() ([]byte, error) {
	return utilities.Serialize(e)
}
