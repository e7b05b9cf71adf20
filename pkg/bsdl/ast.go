package bsdl

import "strings"

// File is a parsed BSDL file. A BSDL file holds one entity.
type File struct {
	Entity *Entity `@@`
}

// Entity is the top-level declaration:
//
//	entity XC7A35T is ... end XC7A35T;
type Entity struct {
	Name    string         `KwEntity @Ident KwIs`
	Generic *GenericClause `@@?`
	Port    *PortClause    `@@?`
	Decls   []*EntityDecl  `@@*`
	EndName string         `KwEnd ( KwEntity )? @Ident? Semicolon`
}

type EntityDecl struct {
	UseClause *UseClause `  @@`
	Attribute *Attribute `| @@`
}

// GenericClause holds the generic parameters, usually just
//
//	generic (PHYSICAL_PIN_MAP : string := "FTG256");
type GenericClause struct {
	Generics []*Generic `KwGeneric LParen ( @@ ( Semicolon @@ )* )? RParen Semicolon`
}

type Generic struct {
	Name         string  `@Ident`
	Type         string  `Colon @( Ident | KwString | KwInteger | KwReal | KwBoolean )`
	DefaultValue *String `( Assign @@ )?`
}

type PortClause struct {
	Ports []*Port `KwPort LParen ( @@ ( Semicolon @@ )* Semicolon? )? RParen Semicolon`
}

type Port struct {
	Name string    `@Ident`
	Mode string    `Colon @( KwIn | KwOut | KwInout | KwBuffer | KwLinkage )`
	Type *PortType `@@`
}

type PortType struct {
	Name  string     `@( KwBit | KwBitVector | KwString )`
	Range *RangeSpec `@@?`
}

// RangeSpec is a vector range such as (0 to 7) or (7 downto 0).
type RangeSpec struct {
	Start     int    `LParen @Integer`
	Direction string `@Ident`
	End       int    `@Integer RParen`
}

// UseClause is a package import, e.g. use STD_1149_1_2001.all;
type UseClause struct {
	Package string `KwUse @Ident`
	Item    string `Dot @( Ident | KwAll ) Semicolon`
}

type Attribute struct {
	Constant *Constant      `  @@`
	Spec     *AttributeSpec `| @@`
}

// Constant is a constant declaration. Pin maps are declared this way:
//
//	constant FTG256 : PIN_MAP_STRING := "CLK : P14, " & "LED : (A3, B4)";
type Constant struct {
	Name  string      `KwConstant @Ident`
	Type  string      `Colon @Ident`
	Value *Expression `Assign @@ Semicolon`
}

// AttributeSpec is e.g. attribute INSTRUCTION_LENGTH of X : entity is 6;
type AttributeSpec struct {
	Name       string      `KwAttribute @Ident`
	Of         string      `KwOf @Ident`
	EntityType string      `Colon @( Ident | KwEntity | KwConstant )`
	Is         *Expression `KwIs @@ Semicolon`
}

// Expression is one term or several joined with '&'.
type Expression struct {
	Terms []*Term `@@ ( Concat @@ )*`
}

type Term struct {
	String  *String  `  @@`
	Real    *float64 `| @Real`
	Integer *int     `| @Integer`
	Ident   *string  `| @Ident`
	Tuple   *Tuple   `| @@`
	Boolean *bool    `| ( @KwTrue | KwFalse )`
}

// Tuple is a parenthesized list, e.g. (50.0e6, BOTH).
type Tuple struct {
	Values []*Expression `LParen @@ ( Comma @@ )* RParen`
}

type String struct {
	Value string `@String`
}

// Text returns the literal without its quotes.
func (s *String) Text() string {
	return strings.TrimSuffix(strings.TrimPrefix(s.Value, `"`), `"`)
}

// Concat joins the string terms of the expression. Other terms are ignored.
func (e *Expression) Concat() string {
	var b strings.Builder
	for _, t := range e.Terms {
		if t.String != nil {
			b.WriteString(t.String.Text())
		}
	}
	return b.String()
}

// Attributes returns the attribute and constant declarations in file order.
func (e *Entity) Attributes() []*Attribute {
	var attrs []*Attribute
	for _, d := range e.Decls {
		if d.Attribute != nil {
			attrs = append(attrs, d.Attribute)
		}
	}
	return attrs
}

// Constants returns the constants of the given type (case-insensitive).
func (e *Entity) Constants(typ string) []*Constant {
	var out []*Constant
	for _, a := range e.Attributes() {
		if a.Constant != nil && strings.EqualFold(a.Constant.Type, typ) {
			out = append(out, a.Constant)
		}
	}
	return out
}

// GenericDefault returns the default value of a string generic.
func (e *Entity) GenericDefault(name string) (string, bool) {
	if e.Generic == nil {
		return "", false
	}
	for _, g := range e.Generic.Generics {
		if strings.EqualFold(g.Name, name) && g.DefaultValue != nil {
			return g.DefaultValue.Text(), true
		}
	}
	return "", false
}
