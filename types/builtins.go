package types

var (
	anyClass     = NewClass("Any", KindClass, ModalityOpen)
	nothingClass = NewClass("Nothing", KindClass, ModalityFinal)

	comparableParam = NewTypeParameter("T", In, 0)
	comparableClass = NewClass("Comparable", KindInterface, ModalityAbstract, comparableParam)

	charSequenceClass = NewClass("CharSequence", KindInterface, ModalityAbstract)
	numberClass       = NewClass("Number", KindClass, ModalityAbstract)
	unitClass         = NewClass("Unit", KindObject, ModalityFinal)
	booleanClass      = NewClass("Boolean", KindClass, ModalityFinal)
	charClass         = NewClass("Char", KindClass, ModalityFinal)
	intClass          = NewClass("Int", KindClass, ModalityFinal)
	longClass         = NewClass("Long", KindClass, ModalityFinal)
	doubleClass       = NewClass("Double", KindClass, ModalityFinal)
	stringClass       = NewClass("String", KindClass, ModalityFinal)
)

func init() {
	comparableParam.SetUpperBounds(NullableAnyType())
	comparableOf := func(c *ClassDescriptor) *SimpleType {
		return comparableClass.Of(c.DefaultType())
	}
	booleanClass.SetSupertypes(comparableOf(booleanClass))
	charClass.SetSupertypes(comparableOf(charClass))
	for _, number := range []*ClassDescriptor{intClass, longClass, doubleClass} {
		number.SetSupertypes(numberClass.DefaultType(), comparableOf(number))
	}
	stringClass.SetSupertypes(comparableOf(stringClass), charSequenceClass.DefaultType())
}

// Builtins are the classes every declaration scope starts with
func Builtins() []*ClassDescriptor {
	return []*ClassDescriptor{
		anyClass, nothingClass, comparableClass, charSequenceClass, numberClass,
		unitClass, booleanClass, charClass, intClass, longClass, doubleClass, stringClass,
	}
}

func AnyClass() *ClassDescriptor        { return anyClass }
func NothingClass() *ClassDescriptor    { return nothingClass }
func ComparableClass() *ClassDescriptor { return comparableClass }
func NumberClass() *ClassDescriptor     { return numberClass }
func IntClass() *ClassDescriptor        { return intClass }
func LongClass() *ClassDescriptor       { return longClass }
func StringClass() *ClassDescriptor     { return stringClass }
func UnitClass() *ClassDescriptor       { return unitClass }
func BooleanClass() *ClassDescriptor    { return booleanClass }
func CharClass() *ClassDescriptor       { return charClass }
func DoubleClass() *ClassDescriptor     { return doubleClass }
func CharSequenceClass() *ClassDescriptor {
	return charSequenceClass
}

func AnyType() *SimpleType             { return NewSimpleType(anyClass.constructor, false) }
func NullableAnyType() *SimpleType     { return NewSimpleType(anyClass.constructor, true) }
func NothingType() *SimpleType         { return NewSimpleType(nothingClass.constructor, false) }
func NullableNothingType() *SimpleType { return NewSimpleType(nothingClass.constructor, true) }

// IsNothing is true only for the non-nullable bottom type: `Nothing?` has null as an inhabitant
func IsNothing(t Type) bool {
	st, ok := t.(*SimpleType)
	return ok && !st.nullable && st.constructor == nothingClass.constructor
}

func isNothingConstructor(t *SimpleType) bool { return t.constructor == nothingClass.constructor }
