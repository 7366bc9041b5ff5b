package otype

import (
	"fmt"
	"sync"
)

// typeRegistry is the process-wide name to descriptor table. Lookups
// take the read lock; registration takes the write lock. Class
// building mutates descriptors without the lock and is therefore only
// safe before concurrent use begins.
type typeRegistry struct {
	mu        sync.RWMutex
	types     map[string]*TypeImpl
	anonCount int
}

var registry = &typeRegistry{
	types: make(map[string]*TypeImpl, 16),
}

func init() {
	RegisterStatic(&TypeInfo{
		Name:         TypeInterface,
		InstanceSize: InterfaceInstanceSize,
		Abstract:     true,
	})
}

// add stores a descriptor under its name. The caller has already
// checked for duplicates.
func (r *typeRegistry) add(ti *TypeImpl) {
	r.mu.Lock()
	r.types[ti.name] = ti
	r.mu.Unlock()
}

// nextAnonymousName returns a fresh <anonymous-N> name.
func (r *typeRegistry) nextAnonymousName() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := fmt.Sprintf("<anonymous-%d>", r.anonCount)
	r.anonCount++
	return name
}

// typeByName resolves a name to its descriptor. An empty name and an
// unregistered name both resolve to nil.
func typeByName(name string) *TypeImpl {
	if name == "" {
		return nil
	}
	registry.mu.RLock()
	ti := registry.types[name]
	registry.mu.RUnlock()
	return ti
}

// newTypeImpl copies a registration record into a fresh descriptor.
func newTypeImpl(name string, info *TypeInfo) *TypeImpl {
	if len(info.Interfaces) > MaxInterfaces {
		panic(fmt.Sprintf("type %q declares %d interfaces, limit is %d",
			name, len(info.Interfaces), MaxInterfaces))
	}

	ti := &TypeImpl{
		name:             name,
		parent:           info.Parent,
		instanceSize:     info.InstanceSize,
		classSize:        info.ClassSize,
		baseInit:         info.BaseInit,
		baseFinalize:     info.BaseFinalize,
		classInit:        info.ClassInit,
		classFinalize:    info.ClassFinalize,
		classData:        info.ClassData,
		instanceInit:     info.InstanceInit,
		instanceFinalize: info.InstanceFinalize,
		abstract:         info.Abstract,
	}

	for _, decl := range info.Interfaces {
		ti.interfaces = append(ti.interfaces, &interfaceImpl{
			parent: decl.Type,
			init:   decl.Init,
		})
	}

	return ti
}

// verifyAncestry walks the parent chain of ti and panics on an
// unresolvable parent name or a cycle.
func verifyAncestry(ti *TypeImpl) {
	seen := make(map[string]bool, 4)
	for t := ti; t.parent != ""; {
		if seen[t.name] {
			panic(fmt.Sprintf("circular parent chain through type %q", t.name))
		}
		seen[t.name] = true

		parent := typeByName(t.parent)
		if parent == nil {
			panic(fmt.Sprintf("type %q has unknown parent %q", t.name, t.parent))
		}
		t = parent
	}
}
