package wave

import "fmt"

// Time is a timestamp in trace ticks.
type Time = uint64

// Handle identifies a variable inside the Trace that issued it.
// It is meaningless against any other Trace.
type Handle struct {
	id uint32
}

// NewHandle wraps a decoder-internal signal index.
// Only Trace implementations should call this.
func NewHandle(id uint32) Handle {
	return Handle{id: id}
}

// ID returns the decoder-internal index. Only the issuing decoder should
// interpret it.
func (h Handle) ID() uint32 {
	return h.id
}

func (h Handle) String() string {
	return fmt.Sprintf("handle#%d", h.id)
}

// VarType is the signal-kind tag of a variable. Values follow the FST
// var_type numbering so decoders for either format share one table.
type VarType uint8

const (
	VarTypeEvent         VarType = 0
	VarTypeInteger       VarType = 1
	VarTypeParameter     VarType = 2
	VarTypeReal          VarType = 3
	VarTypeRealParameter VarType = 4
	VarTypeReg           VarType = 5
	VarTypeSupply0       VarType = 6
	VarTypeSupply1       VarType = 7
	VarTypeTime          VarType = 8
	VarTypeTri           VarType = 9
	VarTypeTriand        VarType = 10
	VarTypeTrior         VarType = 11
	VarTypeTrireg        VarType = 12
	VarTypeTri0          VarType = 13
	VarTypeTri1          VarType = 14
	VarTypeWand          VarType = 15
	VarTypeWire          VarType = 16
	VarTypeWor           VarType = 17
	VarTypePort          VarType = 18
)

// String returns the reported tag. Only the VCD kinds exposed to callers
// have names; every other kind reports "Unknown".
func (t VarType) String() string {
	switch t {
	case VarTypeEvent:
		return "VcdEvent"
	case VarTypeInteger:
		return "VcdInteger"
	case VarTypeParameter:
		return "VcdParameter"
	case VarTypeReal:
		return "VcdReal"
	case VarTypeReg:
		return "VcdReg"
	default:
		return "Unknown"
	}
}

// FileType is the simulator-language tag stored in a trace header.
type FileType uint8

const (
	FileTypeVerilog     FileType = 0
	FileTypeVHDL        FileType = 1
	FileTypeVerilogVHDL FileType = 2
)

// String returns the reported tag; unrecognized codes report "Unknown".
func (f FileType) String() string {
	switch f {
	case FileTypeVerilog:
		return "Verilog"
	case FileTypeVHDL:
		return "VHDL"
	case FileTypeVerilogVHDL:
		return "Verilog/VHDL"
	default:
		return "Unknown"
	}
}

// Var is one variable declaration as listed by Trace.Vars.
type Var struct {
	// Name is the full hierarchical name, e.g. "TOP.cpu.rax_op [1:0]".
	Name   string
	Handle Handle
	Type   VarType
	// Width is the declared bit width (0 if the decoder does not know it).
	Width uint32
}

// HierKind categorizes hierarchy events.
type HierKind uint8

const (
	HierScopeBegin HierKind = iota + 1
	HierScopeEnd
	HierAttrBegin
	HierAttrEnd
	HierVar
)

func (k HierKind) String() string {
	switch k {
	case HierScopeBegin:
		return "scope_begin"
	case HierScopeEnd:
		return "scope_end"
	case HierAttrBegin:
		return "attr_begin"
	case HierAttrEnd:
		return "attr_end"
	case HierVar:
		return "var"
	default:
		return "unknown"
	}
}

// Attr is an attribute annotation. The enum-table encoding lives entirely
// in Name; Kind and Subtype are carried through for callers that care.
type Attr struct {
	Kind    string
	Subtype uint8
	Name    string
	Arg     int64
}

// HierEvent is one record from a walk of the scope tree.
// Exactly one of Scope, Attr or Var is meaningful, selected by Kind.
type HierEvent struct {
	Kind  HierKind
	Scope string // HierScopeBegin: scope name
	Attr  Attr   // HierAttrBegin
	Var   Var    // HierVar
}
