package compiler

// SymbolTable maps variable names to the slots holding them. A table lives
// for the lowering of exactly one function.
type SymbolTable struct {
	slots map[string]Slot
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{slots: make(map[string]Slot)}
}

func (s *SymbolTable) Put(name string, slot Slot) {
	s.slots[name] = slot
}

func (s *SymbolTable) Get(name string) (Slot, bool) {
	slot, ok := s.slots[name]
	return slot, ok
}
