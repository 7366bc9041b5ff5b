package otype

import "fmt"

// ensureClass builds the class object of ti on first use. Subsequent
// calls are no-ops; a built class is never rebuilt or replaced.
//
// The build order carries the inheritance semantics: the parent's
// table bytes are copied first, every ancestor's BaseInit then runs
// top-down against the new class so each level can overwrite the slots
// it owns, interface implementation types are synthesized and built,
// and the type's own ClassInit runs last so the most derived type has
// the final say.
func ensureClass(ti *TypeImpl) {
	if ti.class != nil {
		return
	}

	verifyAncestry(ti)

	ti.classSize = resolveClassSize(ti)

	cls := &ObjectClass{
		typ:   ti,
		table: make([]byte, ti.classSize-ClassHeaderSize),
	}
	ti.class = cls

	if ti.parent != "" {
		parent := typeByName(ti.parent)
		ensureClass(parent)

		if parent.classSize > ti.classSize {
			panic(fmt.Sprintf("type %q class size %d is smaller than parent %q class size %d",
				ti.name, ti.classSize, parent.name, parent.classSize))
		}
		copy(cls.table, parent.class.table)
	}

	classBaseInit(cls, ti.name)

	for _, entry := range ti.interfaces {
		synthesizeInterface(entry)
		ensureClass(entry.typ)
	}

	if ti.classInit != nil {
		ti.classInit(cls, ti.classData)
	}
}

// resolveClassSize walks ancestors until a non-zero class size is
// found, falling back to the bare class header for a chain that never
// declares one.
func resolveClassSize(ti *TypeImpl) int {
	for t := ti; t != nil; t = typeByName(t.parent) {
		if t.classSize != 0 {
			return t.classSize
		}
	}
	return ClassHeaderSize
}

// classBaseInit invokes BaseInit hooks along the parent chain of the
// named type, root first, each against the class under construction.
func classBaseInit(cls *ObjectClass, typename string) {
	ti := typeByName(typename)
	if ti == nil {
		return
	}

	classBaseInit(cls, ti.parent)

	if ti.baseInit != nil {
		ti.baseInit(cls)
	}
}

// synthesizeInterface registers the anonymous implementation type for
// one interface declaration. The implementation extends the declared
// interface type, is sized for the owner back-pointer, and runs the
// declaration's init hook as its own ClassInit. It is abstract so
// callers cannot construct it by name; the installer below bypasses
// that check. It declares no interfaces of its own, which terminates
// the build recursion.
func synthesizeInterface(entry *interfaceImpl) {
	entry.typ = registerAnonymous(&TypeInfo{
		Parent:       entry.parent,
		InstanceSize: InterfaceInstanceSize,
		ClassSize:    InterfaceClassSize,
		ClassInit:    entry.init,
		Abstract:     true,
	})
}

// newInterfaceImpl constructs the per-instance implementation object
// of a synthesized type, skipping the abstract check that guards the
// public constructor.
func newInterfaceImpl(ti *TypeImpl) *Object {
	ensureClass(ti)

	obj := &Object{
		class: ti.class,
		data:  make([]byte, ti.instanceSize-ObjectHeaderSize),
	}
	instanceInit(obj, ti)
	return obj
}
