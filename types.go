package otype

const (
	// MaxInterfaces is the maximum number of interface declarations
	// a single type may carry.
	MaxInterfaces = 32

	// ClassHeaderSize is the byte size of the universal class header
	// (the type reference) that precedes every class table.
	ClassHeaderSize = 8

	// ObjectHeaderSize is the byte size of the universal instance
	// header (the class reference and the interface list).
	ObjectHeaderSize = 16

	// InterfaceInstanceSize is the instance size of a synthesized
	// interface implementation: the universal header plus the owner
	// back-pointer.
	InterfaceInstanceSize = ObjectHeaderSize + 8

	// InterfaceClassSize is the class size of a synthesized interface
	// implementation: the class header plus one table word for the
	// interface's own slots.
	InterfaceClassSize = ClassHeaderSize + 8
)

// TypeInterface is the distinguished root of every synthesized
// interface implementation type. It is registered at package
// initialization, before any user registration runs.
const TypeInterface = "interface"

// BaseInitFunc runs once per derived class build, top-down along the
// parent chain, against the derived class under construction.
type BaseInitFunc func(class *ObjectClass)

// ClassInitFunc runs once when a type's own class is built, after
// every ancestor's BaseInitFunc.
type ClassInitFunc func(class *ObjectClass, data any)

// InstanceInitFunc runs per instance, once for each type along the
// parent chain.
type InstanceInitFunc func(obj *Object)

// InterfaceInfo declares one interface on a type: the interface type
// to extend and the hook that populates the synthesized class.
type InterfaceInfo struct {
	Type string
	Init ClassInitFunc
}

// TypeInfo is the caller-supplied registration record. It is copied
// into the registry by RegisterStatic; the caller may reuse or discard
// it afterwards.
type TypeInfo struct {
	Name   string
	Parent string

	InstanceSize int
	ClassSize    int

	BaseInit     BaseInitFunc
	BaseFinalize BaseInitFunc

	ClassInit     ClassInitFunc
	ClassFinalize ClassInitFunc
	ClassData     any

	InstanceInit     InstanceInitFunc
	InstanceFinalize InstanceInitFunc

	Abstract bool

	Interfaces []InterfaceInfo
}

// interfaceImpl is one declared interface on a registered type. typ is
// the anonymous implementation type synthesized during class build.
type interfaceImpl struct {
	parent string
	init   ClassInitFunc
	typ    *TypeImpl
}

// TypeImpl is the registered descriptor of one type. All fields are
// fixed at registration except class, which is built once on first
// use, and each interface entry's synthesized type.
type TypeImpl struct {
	name   string
	parent string

	instanceSize int
	classSize    int

	baseInit     BaseInitFunc
	baseFinalize BaseInitFunc

	classInit     ClassInitFunc
	classFinalize ClassInitFunc
	classData     any

	instanceInit     InstanceInitFunc
	instanceFinalize InstanceInitFunc

	abstract bool

	interfaces []*interfaceImpl

	class *ObjectClass
}

// Name returns the registered type name.
func (t *TypeImpl) Name() string { return t.name }

// Parent returns the parent type name, or the empty string for a root.
func (t *TypeImpl) Parent() string { return t.parent }

// InstanceSize returns the instance allocation size in bytes.
func (t *TypeImpl) InstanceSize() int { return t.instanceSize }

// ClassSize returns the class size in bytes. Before the class is built
// this may still be zero, meaning "inherit from the parent".
func (t *TypeImpl) ClassSize() int { return t.classSize }

// Abstract reports whether instances of the type may be created.
func (t *TypeImpl) Abstract() bool { return t.abstract }

// ObjectClass is the per-type class object: the universal header (the
// type reference) followed by the class table, the vtable-like byte
// region inherited from the parent and customised by the init hooks.
type ObjectClass struct {
	typ   *TypeImpl
	table []byte
}

// Type returns the descriptor the class was built for.
func (c *ObjectClass) Type() *TypeImpl { return c.typ }

// Name returns the name of the type the class was built for.
func (c *ObjectClass) Name() string { return c.typ.name }

// Size returns the resolved class size in bytes.
func (c *ObjectClass) Size() int { return ClassHeaderSize + len(c.table) }

// Table returns the class table. Slot offsets are relative to the end
// of the class header; BaseInit and ClassInit hooks write method slots
// here, and bytes up to the parent's class size are inherited.
func (c *ObjectClass) Table() []byte { return c.table }

// Object is one instance: the universal header (class reference and
// interface list) followed by the type-private state. Interface
// implementations installed on an instance are themselves Objects
// carrying an owner back-pointer.
type Object struct {
	class  *ObjectClass
	ifaces []*Object
	owner  *Object
	data   []byte
}

// Class returns the instance's class object.
func (o *Object) Class() *ObjectClass { return o.class }

// TypeName returns the name of the instance's type.
func (o *Object) TypeName() string { return o.class.typ.name }

// Data returns the type-private state of the instance, laid out by the
// concrete type. Its length is the instance size minus the universal
// header.
func (o *Object) Data() []byte { return o.data }

// Interfaces returns the interface implementations installed on the
// instance, most recently installed first.
func (o *Object) Interfaces() []*Object { return o.ifaces }

// Owner returns the owning instance when o is an interface
// implementation, and nil otherwise.
func (o *Object) Owner() *Object { return o.owner }
