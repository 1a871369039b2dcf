package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Manager list errors.
const (
	ErrManagerAlreadyExists    = "ManagerAlreadyExists"
	ErrManagerNotFound         = "ManagerNotFound"
	ErrCannotRemoveLastManager = "CannotRemoveLastManager"
)

// Actions reported in ManagerChanged and UserChanged notifications.
const (
	ActionAdd    = "add"
	ActionRemove = "remove"
)

// ManagersKey is a storage key of the serialized manager list.
const ManagersKey = "m"

// IsManager checks whether addr is in the manager list.
func IsManager(ctx storage.Context, addr interop.Hash160) bool {
	return indexOf(GetList(ctx, ManagersKey), addr) >= 0
}

// AddManager appends manager to the end of the manager list. It panics with
// ErrManagerAlreadyExists if manager is already there.
func AddManager(ctx storage.Context, manager interop.Hash160) {
	managers := GetList(ctx, ManagersKey)
	if indexOf(managers, manager) >= 0 {
		panic(ErrManagerAlreadyExists)
	}

	managers = append(managers, manager)
	SetSerialized(ctx, ManagersKey, managers)
}

// RemoveManager removes manager from the manager list keeping the order of
// the rest. It panics with ErrManagerNotFound if there is no such manager and
// with ErrCannotRemoveLastManager if keepLast is set and manager is the only
// one left.
func RemoveManager(ctx storage.Context, manager interop.Hash160, keepLast bool) {
	managers := GetList(ctx, ManagersKey)

	ind := indexOf(managers, manager)
	if ind < 0 {
		panic(ErrManagerNotFound)
	}

	if keepLast && len(managers) == 1 {
		panic(ErrCannotRemoveLastManager)
	}

	res := []interop.Hash160{}
	for i := range managers {
		if i != ind {
			res = append(res, managers[i])
		}
	}

	SetSerialized(ctx, ManagersKey, res)
}

func indexOf(list []interop.Hash160, addr interop.Hash160) int {
	for i := range list {
		if list[i].Equals(addr) {
			return i
		}
	}

	return -1
}
