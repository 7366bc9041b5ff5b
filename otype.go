// Package otype implements a runtime object and type system with
// single-rooted class inheritance, interface composition, and dynamic
// type identification from string type names.
//
// Types are registered once at startup, classes are built lazily on
// first use, and instances are created and destroyed by the caller.
//
// Example:
//
//	otype.RegisterStatic(&otype.TypeInfo{
//	    Name:         "device",
//	    InstanceSize: 32,
//	    ClassSize:    24,
//	})
//
//	func main() {
//	    dev := otype.New("device")
//	    defer otype.Delete(dev)
//	    // Use the instance
//	}
package otype

import "fmt"

// RegisterStatic copies the supplied registration record into a new
// descriptor, stores it in the registry, and returns it.
//
// Registration is intended to run single-threaded at process startup,
// before any instance is created. A missing name and a duplicate name
// are both fatal.
//
// Example:
//
//	var deviceType = otype.RegisterStatic(&otype.TypeInfo{
//	    Name:         "device",
//	    InstanceSize: 32,
//	})
func RegisterStatic(info *TypeInfo) *TypeImpl {
	if info.Name == "" {
		panic("type registration requires a name")
	}
	if typeByName(info.Name) != nil {
		panic(fmt.Sprintf("type %q is already registered", info.Name))
	}

	ti := newTypeImpl(info.Name, info)
	registry.add(ti)
	return ti
}

// registerAnonymous registers a descriptor under a generated
// <anonymous-N> name. Only interface synthesis uses it.
func registerAnonymous(info *TypeInfo) *TypeImpl {
	ti := newTypeImpl(registry.nextAnonymousName(), info)
	registry.add(ti)
	return ti
}

// ClassByName returns the class object of the named type, building it
// on first use. This is the introspection path that forces a class
// build without creating an instance; abstract types are allowed. An
// unknown name returns nil.
func ClassByName(typename string) *ObjectClass {
	ti := typeByName(typename)
	if ti == nil {
		return nil
	}
	ensureClass(ti)
	return ti.class
}

// Initialize sets up obj as a fresh instance of the named type. The
// previous contents of obj are discarded: the private state is zeroed
// to the type's instance size, the class reference is wired, and the
// InstanceInit hooks run along the parent chain, root first. At each
// level, the interfaces declared on that level are installed before
// the level's own hook runs.
//
// An unknown name, an abstract type, and an instance size smaller
// than the universal header are all fatal.
func Initialize(obj *Object, typename string) {
	ti := typeByName(typename)
	if ti == nil {
		panic(fmt.Sprintf("cannot initialize instance of unknown type %q", typename))
	}

	ensureClass(ti)

	if ti.abstract {
		panic(fmt.Sprintf("cannot instantiate abstract type %q", typename))
	}
	if ti.instanceSize < ObjectHeaderSize {
		panic(fmt.Sprintf("type %q instance size %d is smaller than the instance header",
			typename, ti.instanceSize))
	}

	obj.class = ti.class
	obj.ifaces = nil
	obj.owner = nil
	obj.data = make([]byte, ti.instanceSize-ObjectHeaderSize)

	instanceInit(obj, ti)
}

// instanceInit runs the construction walk for ti's parent chain, root
// first: ancestors construct before descendants, and each level's
// interfaces are installed just before its own InstanceInit hook.
func instanceInit(obj *Object, ti *TypeImpl) {
	if ti.parent != "" {
		instanceInit(obj, typeByName(ti.parent))
	}

	for _, entry := range ti.interfaces {
		impl := newInterfaceImpl(entry.typ)
		impl.owner = obj
		obj.ifaces = append([]*Object{impl}, obj.ifaces...)
	}

	if ti.instanceInit != nil {
		ti.instanceInit(obj)
	}
}

// New creates an instance of the named type.
//
// Example:
//
//	obj := otype.New("device")
//	defer otype.Delete(obj)
func New(typename string) *Object {
	obj := &Object{}
	Initialize(obj, typename)
	return obj
}

// Finalize tears an instance down without releasing it. The parent
// chain is walked most-derived first; at each level the level's
// InstanceFinalize hook runs, then the interface implementations
// installed for that level are finalized and dropped. The instance
// header stays intact so the buffer may be initialized again.
func Finalize(obj *Object) {
	for ti := obj.class.typ; ti != nil; ti = typeByName(ti.parent) {
		if ti.instanceFinalize != nil {
			ti.instanceFinalize(obj)
		}
		dropInterfaces(obj, ti)
	}
}

// dropInterfaces finalizes and removes the interface implementations
// that were installed for the interfaces declared on ti.
func dropInterfaces(obj *Object, ti *TypeImpl) {
	if len(ti.interfaces) == 0 {
		return
	}

	kept := obj.ifaces[:0]
	for _, impl := range obj.ifaces {
		if declaredOn(ti, impl) {
			Finalize(impl)
			impl.owner = nil
			continue
		}
		kept = append(kept, impl)
	}
	obj.ifaces = kept
}

// declaredOn reports whether impl was installed for one of ti's
// interface declarations.
func declaredOn(ti *TypeImpl, impl *Object) bool {
	for _, entry := range ti.interfaces {
		if entry.typ != nil && entry.typ == impl.class.typ {
			return true
		}
	}
	return false
}

// Delete finalizes an instance created by New and severs its header
// so the allocation can be collected.
func Delete(obj *Object) {
	Finalize(obj)

	obj.class = nil
	obj.ifaces = nil
	obj.owner = nil
	obj.data = nil
}

// isAncestor walks the parent chain of ti looking for target.
func isAncestor(ti, target *TypeImpl) bool {
	for t := ti; t != nil; t = typeByName(t.parent) {
		if t == target {
			return true
		}
	}
	return false
}

// IsType reports whether the named type is an ancestor of obj's type
// or of one of obj's installed interface implementations. An unknown
// name reports false.
func IsType(obj *Object, typename string) bool {
	target := typeByName(typename)
	if target == nil {
		return false
	}

	if isAncestor(obj.class.typ, target) {
		return true
	}

	for _, impl := range obj.ifaces {
		if IsType(impl, typename) {
			return true
		}
	}

	return false
}

// DynamicCast resolves obj against the named type. The instance
// itself is preferred when its own ancestry matches; otherwise a
// matching interface implementation is returned; otherwise, when obj
// is itself an interface implementation, the cast falls through to
// its owning instance. A miss returns nil.
//
// Example:
//
//	if blk := otype.DynamicCast(dev, "block-backend"); blk != nil {
//	    // dev implements the block-backend interface
//	}
func DynamicCast(obj *Object, typename string) *Object {
	target := typeByName(typename)
	if target == nil {
		return nil
	}

	if isAncestor(obj.class.typ, target) {
		return obj
	}

	for _, impl := range obj.ifaces {
		if isAncestor(impl.class.typ, target) {
			return impl
		}
	}

	if obj.owner != nil && IsType(obj, TypeInterface) && IsType(obj.owner, typename) {
		return obj.owner
	}

	return nil
}

// MustCast is DynamicCast with a fatal miss. The diagnostic names the
// offending instance pointer and the target type.
func MustCast(obj *Object, typename string) *Object {
	inst := DynamicCast(obj, typename)
	if inst == nil {
		panic(fmt.Sprintf("object %p is not an instance of type %q", obj, typename))
	}
	return inst
}

// MustCastClass resolves a class against the named type by walking
// the class's ancestry. A miss is fatal.
func MustCastClass(cls *ObjectClass, typename string) *ObjectClass {
	target := typeByName(typename)

	if target != nil && isAncestor(cls.typ, target) {
		return cls
	}

	panic(fmt.Sprintf("class %p is not a subclass of type %q", cls, typename))
}
