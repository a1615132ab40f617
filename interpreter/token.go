package interpreter

import "fmt"

// TokenType identifies the syntactic class of a token.
type TokenType int

const (
	TOKEN_ILLEGAL TokenType = iota

	// Single character operators
	TOKEN_LPAREN
	TOKEN_RPAREN
	TOKEN_LBRACE
	TOKEN_RBRACE
	TOKEN_COMMA
	TOKEN_SEMICOLON
	TOKEN_NOT
	TOKEN_ASSIGN
	TOKEN_LT
	TOKEN_GT
	TOKEN_AMPERSAND
	TOKEN_PIPE
	TOKEN_TILDE
	TOKEN_PLUS
	TOKEN_MINUS
	TOKEN_MULTIPLY
	TOKEN_DIVIDE
	TOKEN_MODULO

	// Two character operators
	TOKEN_NEQ
	TOKEN_EQ
	TOKEN_LTE
	TOKEN_GTE
	TOKEN_AND
	TOKEN_OR

	// Literals
	TOKEN_IDENT
	TOKEN_STRING
	TOKEN_INT
	TOKEN_FLOAT

	// Commands
	TOKEN_PWD
	TOKEN_EXEC
	TOKEN_CLEAR
	TOKEN_TIME
	TOKEN_CD
	TOKEN_RUN

	// Keywords
	TOKEN_IF
	TOKEN_ELSE
	TOKEN_TRUE
	TOKEN_FALSE
	TOKEN_FOR
	TOKEN_WHILE
	TOKEN_NULL
	TOKEN_ENUM
	TOKEN_VAR
	TOKEN_PRINT
	TOKEN_FUNCTION
	TOKEN_CLASS
	TOKEN_STRUCT
	TOKEN_RETURN

	TOKEN_EOF
)

var tokenNames = map[TokenType]string{
	TOKEN_ILLEGAL:   "ILLEGAL",
	TOKEN_LPAREN:    "(",
	TOKEN_RPAREN:    ")",
	TOKEN_LBRACE:    "{",
	TOKEN_RBRACE:    "}",
	TOKEN_COMMA:     ",",
	TOKEN_SEMICOLON: ";",
	TOKEN_NOT:       "!",
	TOKEN_ASSIGN:    "=",
	TOKEN_LT:        "<",
	TOKEN_GT:        ">",
	TOKEN_AMPERSAND: "&",
	TOKEN_PIPE:      "|",
	TOKEN_TILDE:     "~",
	TOKEN_PLUS:      "+",
	TOKEN_MINUS:     "-",
	TOKEN_MULTIPLY:  "*",
	TOKEN_DIVIDE:    "/",
	TOKEN_MODULO:    "%",
	TOKEN_NEQ:       "!=",
	TOKEN_EQ:        "==",
	TOKEN_LTE:       "<=",
	TOKEN_GTE:       ">=",
	TOKEN_AND:       "&&",
	TOKEN_OR:        "||",
	TOKEN_IDENT:     "IDENT",
	TOKEN_STRING:    "STRING",
	TOKEN_INT:       "INT",
	TOKEN_FLOAT:     "FLOAT",
	TOKEN_PWD:       "pwd",
	TOKEN_EXEC:      "exec",
	TOKEN_CLEAR:     "clear",
	TOKEN_TIME:      "time",
	TOKEN_CD:        "cd",
	TOKEN_RUN:       "run",
	TOKEN_IF:        "if",
	TOKEN_ELSE:      "else",
	TOKEN_TRUE:      "true",
	TOKEN_FALSE:     "false",
	TOKEN_FOR:       "for",
	TOKEN_WHILE:     "while",
	TOKEN_NULL:      "null",
	TOKEN_ENUM:      "enum",
	TOKEN_VAR:       "var",
	TOKEN_PRINT:     "echo",
	TOKEN_FUNCTION:  "funct",
	TOKEN_CLASS:     "class",
	TOKEN_STRUCT:    "struct",
	TOKEN_RETURN:    "return",
	TOKEN_EOF:       "EOF",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token is a classified lexeme. Literal holds the typed value for number,
// string and boolean tokens and is nil otherwise.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal Value
	Line    int
}

func (t Token) String() string {
	if t.Type == TOKEN_EOF {
		return "EOF"
	}
	return fmt.Sprintf("%s %q", t.Type, t.Lexeme)
}

var singleOperators = map[byte]TokenType{
	'(': TOKEN_LPAREN,
	')': TOKEN_RPAREN,
	'{': TOKEN_LBRACE,
	'}': TOKEN_RBRACE,
	',': TOKEN_COMMA,
	';': TOKEN_SEMICOLON,
	'!': TOKEN_NOT,
	'=': TOKEN_ASSIGN,
	'<': TOKEN_LT,
	'>': TOKEN_GT,
	'&': TOKEN_AMPERSAND,
	'|': TOKEN_PIPE,
	'~': TOKEN_TILDE,
	'+': TOKEN_PLUS,
	'-': TOKEN_MINUS,
	'*': TOKEN_MULTIPLY,
	'/': TOKEN_DIVIDE,
	'%': TOKEN_MODULO,
}

var doubleOperators = map[string]TokenType{
	"!=": TOKEN_NEQ,
	"==": TOKEN_EQ,
	"<=": TOKEN_LTE,
	">=": TOKEN_GTE,
	"&&": TOKEN_AND,
	"||": TOKEN_OR,
}

var reservedWords = map[string]TokenType{
	"pwd":    TOKEN_PWD,
	"exec":   TOKEN_EXEC,
	"clear":  TOKEN_CLEAR,
	"if":     TOKEN_IF,
	"else":   TOKEN_ELSE,
	"true":   TOKEN_TRUE,
	"false":  TOKEN_FALSE,
	"for":    TOKEN_FOR,
	"while":  TOKEN_WHILE,
	"null":   TOKEN_NULL,
	"enum":   TOKEN_ENUM,
	"var":    TOKEN_VAR,
	"printf": TOKEN_PRINT,
	"echo":   TOKEN_PRINT,
	"funct":  TOKEN_FUNCTION,
	"class":  TOKEN_CLASS,
	"struct": TOKEN_STRUCT,
	"return": TOKEN_RETURN,
	"time":   TOKEN_TIME,
	"cd":     TOKEN_CD,
	"run":    TOKEN_RUN,
	"eof":    TOKEN_EOF,
}

func lookupIdent(ident string) TokenType {
	if tok, ok := reservedWords[ident]; ok {
		return tok
	}
	return TOKEN_IDENT
}

// isReserved reports whether t was produced from the reserved word table.
func isReserved(t TokenType) bool {
	return t >= TOKEN_PWD && t < TOKEN_EOF
}
