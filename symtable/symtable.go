// Package symtable tracks the scope of every binding the compiler
// encounters and resolves names across nested function scopes, promoting
// captured outer bindings to free-variable references as needed.
package symtable

// Scope identifies where a Symbol's value lives at runtime.
type Scope string

const (
	GlobalScope   Scope = "GLOBAL"
	LocalScope    Scope = "LOCAL"
	BuiltinScope  Scope = "BUILTIN"
	FreeScope     Scope = "FREE"
	FunctionScope Scope = "FUNCTION"
)

// Symbol records a single binding: what it's called, where it lives, and
// its slot index within that scope.
type Symbol struct {
	Name  string
	Scope Scope
	Index int
}

// SymbolTable is one scope in the chain of scopes from global out to the
// innermost function currently being compiled. outer is nil for the
// global table.
type SymbolTable struct {
	outer *SymbolTable

	store          map[string]Symbol
	numDefinitions int

	// FreeSymbols holds, in promotion order, the outer-scope symbols that
	// were captured by this scope. Index i here matches the Free symbol
	// with Index i returned by resolve.
	FreeSymbols []Symbol
}

// New creates a top-level (global) symbol table.
func New() *SymbolTable {
	return &SymbolTable{store: make(map[string]Symbol)}
}

// NewEnclosed creates a symbol table nested inside outer, used on entry
// to a function scope.
func NewEnclosed(outer *SymbolTable) *SymbolTable {
	s := New()
	s.outer = outer
	return s
}

// Define creates a new symbol for name in the current scope: Global if
// this table has no outer, Local otherwise. A later Define for the same
// name overwrites the earlier binding (shadowing).
func (s *SymbolTable) Define(name string) Symbol {
	symbol := Symbol{Name: name, Index: s.numDefinitions}
	if s.outer == nil {
		symbol.Scope = GlobalScope
	} else {
		symbol.Scope = LocalScope
	}
	s.store[name] = symbol
	s.numDefinitions++
	return symbol
}

// DefineBuiltin registers one of the fixed native functions at registry
// index i. Builtins do not consume a local slot.
func (s *SymbolTable) DefineBuiltin(index int, name string) Symbol {
	symbol := Symbol{Name: name, Scope: BuiltinScope, Index: index}
	s.store[name] = symbol
	return symbol
}

// DefineFunctionName binds name to the function literal currently being
// compiled inside its own body, enabling self-recursive calls via the
// Function scope (resolved by the compiler to CurrClosure).
func (s *SymbolTable) DefineFunctionName(name string) Symbol {
	symbol := Symbol{Name: name, Scope: FunctionScope, Index: 0}
	s.store[name] = symbol
	return symbol
}

// defineFree records that original was captured by this scope and returns
// the new Free symbol that replaces it locally.
func (s *SymbolTable) defineFree(original Symbol) Symbol {
	s.FreeSymbols = append(s.FreeSymbols, original)

	symbol := Symbol{Name: original.Name, Scope: FreeScope, Index: len(s.FreeSymbols) - 1}
	s.store[original.Name] = symbol
	return symbol
}

// NumDefinitions reports how many bindings (including parameters) have
// been defined directly in this scope, which becomes a CompiledFunction's
// num_locals.
func (s *SymbolTable) NumDefinitions() int {
	return s.numDefinitions
}

// Resolve looks up name, promoting it to a Free symbol at every scope it
// passes through if it originates as a Local or Free binding in an outer
// scope. Global, Builtin and Function symbols are forwarded unchanged
// regardless of how many scopes separate the reference from the binding.
func (s *SymbolTable) Resolve(name string) (Symbol, bool) {
	symbol, ok := s.store[name]
	if ok {
		return symbol, true
	}
	if s.outer == nil {
		return Symbol{}, false
	}

	symbol, ok = s.outer.Resolve(name)
	if !ok {
		return Symbol{}, false
	}

	if symbol.Scope == GlobalScope || symbol.Scope == BuiltinScope || symbol.Scope == FunctionScope {
		return symbol, true
	}

	return s.defineFree(symbol), true
}
