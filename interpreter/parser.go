package interpreter

import "fmt"

// MaxArgs caps the number of call arguments, function parameters and run
// arguments.
const MaxArgs = 127

// Parser is a recursive descent parser over a classified token slice.
type Parser struct {
	tokens  []Token
	current int
	errors  []error
}

func NewParser(tokens []Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != TOKEN_EOF {
		line := 0
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(tokens, Token{Type: TOKEN_EOF, Line: line})
	}
	return &Parser{tokens: tokens}
}

// Errors returns every syntax error recorded by Parse, one per discarded
// statement.
func (p *Parser) Errors() []error {
	return p.errors
}

// Parse returns the statements that parsed successfully. A malformed
// statement is reported in Errors and skipped up to the next statement
// boundary.
func (p *Parser) Parse() []Stmt {
	var statements []Stmt
	for !p.isAtEnd() {
		stmt, err := p.declaration()
		if err != nil {
			p.errors = append(p.errors, err)
			p.synchronize()
			continue
		}
		statements = append(statements, stmt)
	}
	return statements
}

func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Type == TOKEN_SEMICOLON {
			return
		}
		switch p.peek().Type {
		case TOKEN_FUNCTION, TOKEN_CLASS, TOKEN_STRUCT, TOKEN_VAR, TOKEN_FOR, TOKEN_IF,
			TOKEN_WHILE, TOKEN_PRINT, TOKEN_EXEC, TOKEN_PWD, TOKEN_TIME, TOKEN_CD,
			TOKEN_RUN, TOKEN_RETURN, TOKEN_CLEAR:
			return
		}
		p.advance()
	}
}

func (p *Parser) declaration() (Stmt, error) {
	switch {
	case p.match(TOKEN_VAR):
		return p.varDeclaration()
	case p.match(TOKEN_FUNCTION):
		return p.functionDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) statement() (Stmt, error) {
	switch p.peek().Type {
	case TOKEN_IF:
		p.advance()
		return p.ifStatement()
	case TOKEN_WHILE:
		p.advance()
		return p.whileStatement()
	case TOKEN_FOR:
		p.advance()
		return p.forStatement()
	case TOKEN_RETURN:
		p.advance()
		return p.returnStatement()
	case TOKEN_PRINT:
		p.advance()
		return p.echoStatement()
	case TOKEN_TIME:
		keyword := p.advance()
		if _, err := p.consume(TOKEN_SEMICOLON, "Expected ';' after time."); err != nil {
			return nil, err
		}
		return &Time{Keyword: keyword}, nil
	case TOKEN_CLEAR:
		keyword := p.advance()
		if _, err := p.consume(TOKEN_SEMICOLON, "Expected ';' after clear."); err != nil {
			return nil, err
		}
		return &Clear{Keyword: keyword}, nil
	case TOKEN_PWD:
		keyword := p.advance()
		if _, err := p.consume(TOKEN_SEMICOLON, "Expected ';' after pwd."); err != nil {
			return nil, err
		}
		return &Pwd{Keyword: keyword}, nil
	case TOKEN_CD:
		p.advance()
		return p.cdStatement()
	case TOKEN_RUN:
		p.advance()
		return p.runStatement()
	case TOKEN_LBRACE:
		p.advance()
		statements, err := p.block()
		if err != nil {
			return nil, err
		}
		return &Block{Statements: statements}, nil
	case TOKEN_CLASS, TOKEN_STRUCT, TOKEN_ENUM, TOKEN_EXEC:
		tok := p.peek()
		return nil, syntaxError(tok, fmt.Sprintf("'%s' is reserved but not supported.", tok.Lexeme))
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) varDeclaration() (Stmt, error) {
	name, err := p.consume(TOKEN_IDENT, "Expected Identifier after var.")
	if err != nil {
		return nil, err
	}
	stmt := &VarDecl{Name: name}
	if p.match(TOKEN_ASSIGN) {
		stmt.Initializer, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(TOKEN_SEMICOLON, "Expected ';' at the end of the expression."); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) functionDeclaration() (Stmt, error) {
	name, err := p.consume(TOKEN_IDENT, "Expected function name after funct.")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(TOKEN_LPAREN, "Expected '(' after function name."); err != nil {
		return nil, err
	}
	var params []Token
	if !p.check(TOKEN_RPAREN) {
		for {
			if len(params) >= MaxArgs {
				return nil, syntaxError(p.peek(), fmt.Sprintf("Can't have more than %d parameters.", MaxArgs))
			}
			param, err := p.consume(TOKEN_IDENT, "Expected parameter name.")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(TOKEN_COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(TOKEN_RPAREN, "Expected ')' after parameters."); err != nil {
		return nil, err
	}
	if _, err := p.consume(TOKEN_LBRACE, "Expected '{' before function body."); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &FunctionDecl{Name: name, Params: params, Body: body}, nil
}

// block parses declarations up to the closing brace. The opening brace has
// already been consumed.
func (p *Parser) block() ([]Stmt, error) {
	statements := []Stmt{}
	for !p.check(TOKEN_RBRACE) && !p.isAtEnd() {
		stmt, err := p.declaration()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	if _, err := p.consume(TOKEN_RBRACE, "Expected '}' after block."); err != nil {
		return nil, err
	}
	return statements, nil
}

func (p *Parser) ifStatement() (Stmt, error) {
	condition, err := p.parenthesized("if")
	if err != nil {
		return nil, err
	}
	then, err := p.statement()
	if err != nil {
		return nil, err
	}
	stmt := &If{Condition: condition, Then: then}
	if p.match(TOKEN_ELSE) {
		stmt.Else, err = p.statement()
		if err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func (p *Parser) whileStatement() (Stmt, error) {
	condition, err := p.parenthesized("while")
	if err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &While{Condition: condition, Body: body}, nil
}

func (p *Parser) forStatement() (Stmt, error) {
	if _, err := p.consume(TOKEN_LPAREN, "Expected '(' after 'for'."); err != nil {
		return nil, err
	}
	stmt := &For{}
	var err error
	switch {
	case p.match(TOKEN_SEMICOLON):
	case p.match(TOKEN_VAR):
		stmt.Init, err = p.varDeclaration()
	default:
		stmt.Init, err = p.expressionStatement()
	}
	if err != nil {
		return nil, err
	}
	if !p.check(TOKEN_SEMICOLON) {
		if stmt.Condition, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(TOKEN_SEMICOLON, "Expected ';' after loop condition."); err != nil {
		return nil, err
	}
	if !p.check(TOKEN_RPAREN) {
		if stmt.Increment, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(TOKEN_RPAREN, "Expected ')' after for clauses."); err != nil {
		return nil, err
	}
	if stmt.Body, err = p.statement(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parenthesized(keyword string) (Expr, error) {
	if _, err := p.consume(TOKEN_LPAREN, fmt.Sprintf("Expected '(' after '%s'.", keyword)); err != nil {
		return nil, err
	}
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(TOKEN_RPAREN, "Expected ')' after condition."); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *Parser) returnStatement() (Stmt, error) {
	stmt := &Return{Keyword: p.previous()}
	if !p.check(TOKEN_SEMICOLON) {
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		stmt.Value = value
	}
	if _, err := p.consume(TOKEN_SEMICOLON, "Expected ';' after return value."); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) echoStatement() (Stmt, error) {
	keyword := p.previous()
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(TOKEN_SEMICOLON, "Expected ';' at the end of the print expression."); err != nil {
		return nil, err
	}
	return &Echo{Keyword: keyword, Expression: expr}, nil
}

func (p *Parser) cdStatement() (Stmt, error) {
	stmt := &Cd{Keyword: p.previous()}
	if !p.check(TOKEN_SEMICOLON) {
		path, err := p.expression()
		if err != nil {
			return nil, err
		}
		stmt.Path = path
	}
	if _, err := p.consume(TOKEN_SEMICOLON, "Expected ';' after cd."); err != nil {
		return nil, err
	}
	return stmt, nil
}

// runStatement parses `run program, arg, ...;`. A bare word in program
// position names the program literally; anything else is an expression.
func (p *Parser) runStatement() (Stmt, error) {
	stmt := &Run{Keyword: p.previous()}
	if tok := p.peek(); tok.Type == TOKEN_IDENT || isReserved(tok.Type) {
		p.advance()
		stmt.Program = &Literal{Token: tok, Value: String{Value: tok.Lexeme}}
	} else {
		program, err := p.expression()
		if err != nil {
			return nil, err
		}
		stmt.Program = program
	}
	for p.match(TOKEN_COMMA) {
		if len(stmt.Arguments) >= MaxArgs {
			return nil, syntaxError(p.peek(), fmt.Sprintf("Can't have more than %d arguments.", MaxArgs))
		}
		arg, err := p.expression()
		if err != nil {
			return nil, err
		}
		stmt.Arguments = append(stmt.Arguments, arg)
	}
	if _, err := p.consume(TOKEN_SEMICOLON, "Expected ';' after run arguments."); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) expressionStatement() (Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(TOKEN_SEMICOLON, "Expected ';' at the end of the expression."); err != nil {
		return nil, err
	}
	return &ExpressionStmt{Expression: expr}, nil
}

func (p *Parser) expression() (Expr, error) {
	return p.assignment()
}

func (p *Parser) assignment() (Expr, error) {
	expr, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.match(TOKEN_ASSIGN) {
		equals := p.previous()
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}
		if ident, ok := expr.(*Identifier); ok {
			return &Assign{Name: ident.Name, Value: value}, nil
		}
		return nil, syntaxError(equals, "Invalid assignment target!")
	}
	return expr, nil
}

func (p *Parser) or() (Expr, error) {
	return p.logical(p.and, TOKEN_OR)
}

func (p *Parser) and() (Expr, error) {
	return p.logical(p.equality, TOKEN_AND)
}

func (p *Parser) logical(operand func() (Expr, error), op TokenType) (Expr, error) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}
	for p.match(op) {
		operator := p.previous()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		expr = &Logical{Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (p *Parser) equality() (Expr, error) {
	return p.binary(p.comparison, TOKEN_NEQ, TOKEN_EQ)
}

func (p *Parser) comparison() (Expr, error) {
	return p.binary(p.term, TOKEN_GT, TOKEN_GTE, TOKEN_LT, TOKEN_LTE)
}

func (p *Parser) term() (Expr, error) {
	return p.binary(p.factor, TOKEN_MINUS, TOKEN_PLUS)
}

func (p *Parser) factor() (Expr, error) {
	return p.binary(p.unary, TOKEN_DIVIDE, TOKEN_MULTIPLY, TOKEN_MODULO)
}

// binary parses a left associative chain of operand separated by any of ops.
func (p *Parser) binary(operand func() (Expr, error), ops ...TokenType) (Expr, error) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}
	for p.match(ops...) {
		operator := p.previous()
		if p.isAtEnd() {
			return nil, syntaxError(p.peek(), "Missing right operand!")
		}
		right, err := operand()
		if err != nil {
			return nil, err
		}
		expr = &Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (p *Parser) unary() (Expr, error) {
	if p.match(TOKEN_MINUS, TOKEN_NOT, TOKEN_TILDE) {
		operator := p.previous()
		if p.isAtEnd() {
			return nil, syntaxError(p.peek(), "Missing right operand!")
		}
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Unary{Operator: operator, Right: right}, nil
	}
	return p.call()
}

func (p *Parser) call() (Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.match(TOKEN_LPAREN) {
		expr, err = p.finishCall(expr)
		if err != nil {
			return nil, err
		}
	}
	return expr, nil
}

func (p *Parser) finishCall(callee Expr) (Expr, error) {
	var args []Expr
	if !p.check(TOKEN_RPAREN) {
		for {
			if len(args) >= MaxArgs {
				return nil, syntaxError(p.peek(), fmt.Sprintf("Can't have more than %d arguments.", MaxArgs))
			}
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(TOKEN_COMMA) {
				break
			}
		}
	}
	paren, err := p.consume(TOKEN_RPAREN, "Expected ')' after arguments.")
	if err != nil {
		return nil, err
	}
	return &Call{Callee: callee, Paren: paren, Arguments: args}, nil
}

func (p *Parser) primary() (Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case TOKEN_INT, TOKEN_FLOAT, TOKEN_STRING, TOKEN_TRUE, TOKEN_FALSE:
		p.advance()
		return &Literal{Token: tok, Value: tok.Literal}, nil
	case TOKEN_NULL:
		p.advance()
		return &Literal{Token: tok}, nil
	case TOKEN_IDENT:
		p.advance()
		return &Identifier{Name: tok}, nil
	case TOKEN_LPAREN:
		p.advance()
		if p.isAtEnd() {
			return nil, syntaxError(p.peek(), "Unclosed parenthesis.")
		}
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(TOKEN_RPAREN, "Expected ')' after expression."); err != nil {
			return nil, err
		}
		return &Grouping{Expression: expr}, nil
	case TOKEN_PLUS, TOKEN_MULTIPLY, TOKEN_DIVIDE, TOKEN_MODULO:
		return nil, syntaxError(tok, "could not parse such token. Expected left operand.")
	}
	return nil, syntaxError(tok, "could not parse such token. Expect expression.")
}

func (p *Parser) match(types ...TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(t TokenType, msg string) (Token, error) {
	if p.check(t) {
		return p.advance(), nil
	}
	return Token{}, syntaxError(p.peek(), msg)
}

func (p *Parser) check(t TokenType) bool {
	if p.isAtEnd() {
		return t == TOKEN_EOF
	}
	return p.peek().Type == t
}

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == TOKEN_EOF
}

func (p *Parser) peek() Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}
