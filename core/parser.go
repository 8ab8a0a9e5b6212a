package core

import (
	"fmt"
	"io"
	"strconv"
)

// ReferenceResolver looks up indirect objects. The parser uses it to
// resolve stream lengths given as indirect references.
type ReferenceResolver interface {
	Lookup(ref IndirectRef) (Object, error)
}

// Parser parses PDF objects from an io.Reader using a Lexer for tokenization.
// It supports parsing all PDF object types including indirect objects and streams.
type Parser struct {
	lexer        *Lexer
	currentToken *Token
	peekToken    *Token
	lexErr       error // first lexer failure; reported instead of a premature EOF
	resolver     ReferenceResolver
}

// NewParser creates a new PDF parser for the given reader.
func NewParser(r io.Reader) *Parser {
	return newParserWithLexer(NewLexer(r))
}

// newParserWithLexer creates a parser that continues from the lexer's
// current position.
func newParserWithLexer(l *Lexer) *Parser {
	p := &Parser{lexer: l}
	p.nextToken()
	p.nextToken()
	return p
}

// SetReferenceResolver sets the resolver used for indirect stream lengths.
func (p *Parser) SetReferenceResolver(resolver ReferenceResolver) {
	p.resolver = resolver
}

// nextToken shifts the lookahead. After a lexer error the stream of tokens
// ends with EOF, and the error is kept in lexErr.
func (p *Parser) nextToken() {
	p.currentToken = p.peekToken

	// Binary stream data follows "stream"; parseStream reads it directly.
	if p.currentToken != nil && p.currentToken.Type == TokenKeyword &&
		string(p.currentToken.Value) == "stream" {
		p.peekToken = nil
		return
	}

	if p.lexErr != nil {
		p.peekToken = &Token{Type: TokenEOF, Pos: p.lexer.Pos()}
		return
	}

	token, err := p.lexer.NextToken()
	if err != nil {
		p.lexErr = err
		token = &Token{Type: TokenEOF, Pos: p.lexer.Pos()}
	}
	p.peekToken = token
}

func (p *Parser) skipComments() {
	for p.currentToken != nil && p.currentToken.Type == TokenComment {
		p.nextToken()
	}
}

// eofError reports an unexpected end of input, preferring the lexer failure
// that caused it.
func (p *Parser) eofError(context string) error {
	if p.lexErr != nil {
		return p.lexErr
	}
	return fmt.Errorf("unexpected EOF in %s", context)
}

// ParseObject parses and returns the next PDF object from the input.
// It returns io.EOF when the input is exhausted.
func (p *Parser) ParseObject() (Object, error) {
	p.skipComments()

	if p.currentToken == nil {
		return nil, fmt.Errorf("unexpected end of input")
	}

	switch p.currentToken.Type {
	case TokenEOF:
		if p.lexErr != nil {
			return nil, p.lexErr
		}
		return nil, io.EOF

	case TokenKeyword:
		keyword := string(p.currentToken.Value)
		switch keyword {
		case "null":
			p.nextToken()
			return Null{}, nil
		case "true":
			p.nextToken()
			return Bool(true), nil
		case "false":
			p.nextToken()
			return Bool(false), nil
		default:
			return nil, fmt.Errorf("unexpected keyword %q at position %d", keyword, p.currentToken.Pos)
		}

	case TokenInteger:
		return p.parseNumber()

	case TokenReal:
		val, err := strconv.ParseFloat(string(p.currentToken.Value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid real number %q: %w", p.currentToken.Value, err)
		}
		p.nextToken()
		return Real(val), nil

	case TokenString:
		val := String(p.currentToken.Value)
		p.nextToken()
		return val, nil

	case TokenHexString:
		val := decodeHexString(p.currentToken.Value)
		p.nextToken()
		return val, nil

	case TokenName:
		val := Name(p.currentToken.Value)
		p.nextToken()
		return val, nil

	case TokenArrayStart:
		return p.parseArray()

	case TokenDictStart:
		return p.parseDict()

	default:
		return nil, fmt.Errorf("unexpected token %q at position %d", p.currentToken.Value, p.currentToken.Pos)
	}
}

// decodeHexString converts validated hex digits to bytes. A missing final
// digit is taken as 0.
func decodeHexString(digits []byte) String {
	result := make([]byte, (len(digits)+1)/2)
	for i, d := range digits {
		if i%2 == 0 {
			result[i/2] = hexValue(d) << 4
		} else {
			result[i/2] |= hexValue(d)
		}
	}
	return String(result)
}

// parseNumber parses an integer, real number, or indirect reference.
// Indirect references are detected by lookahead: "num gen R".
func (p *Parser) parseNumber() (Object, error) {
	first := string(p.currentToken.Value)

	firstInt, err := strconv.ParseInt(first, 10, 64)
	if err != nil {
		f, err := strconv.ParseFloat(first, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q at position %d", first, p.currentToken.Pos)
		}
		p.nextToken()
		return Real(f), nil
	}

	if p.peekToken != nil && p.peekToken.Type == TokenInteger {
		secondInt, err := strconv.ParseInt(string(p.peekToken.Value), 10, 64)
		if err == nil {
			p.nextToken() // now at the second integer
			if p.peekToken != nil && p.peekToken.Type == TokenIndirectRef {
				p.nextToken() // R
				p.nextToken() // past R
				return IndirectRef{Number: int(firstInt), Generation: int(secondInt)}, nil
			}
			// Not a reference; the second integer stays current.
			return Int(firstInt), nil
		}
	}

	p.nextToken()
	return Int(firstInt), nil
}

// parseArray parses a PDF array "[obj1 obj2 ...]".
func (p *Parser) parseArray() (Object, error) {
	p.nextToken() // [

	arr := Array{}
	for {
		p.skipComments()
		if p.currentToken == nil {
			return nil, p.eofError("array")
		}

		switch p.currentToken.Type {
		case TokenArrayEnd:
			p.nextToken()
			return arr, nil
		case TokenEOF:
			return nil, p.eofError("array")
		}

		obj, err := p.ParseObject()
		if err != nil {
			return nil, fmt.Errorf("error parsing array element %d: %w", len(arr), err)
		}
		arr = append(arr, obj)
	}
}

// parseDict parses a PDF dictionary "<< /Key value ... >>".
// A null value is equivalent to an absent entry.
func (p *Parser) parseDict() (Object, error) {
	p.nextToken() // <<

	dict := make(Dict)
	for {
		p.skipComments()
		if p.currentToken == nil {
			return nil, p.eofError("dictionary")
		}

		switch p.currentToken.Type {
		case TokenDictEnd:
			p.nextToken()
			return dict, nil
		case TokenEOF:
			return nil, p.eofError("dictionary")
		case TokenName:
		default:
			return nil, fmt.Errorf("expected name for dictionary key at position %d, got %q",
				p.currentToken.Pos, p.currentToken.Value)
		}

		key := string(p.currentToken.Value)
		p.nextToken()

		value, err := p.ParseObject()
		if err != nil {
			return nil, fmt.Errorf("error parsing dictionary value for key '%s': %w", key, err)
		}
		if _, isNull := value.(Null); isNull {
			delete(dict, key)
			continue
		}
		dict[key] = value
	}
}

// expectKeyword consumes the current token if it is the given keyword.
func (p *Parser) expectKeyword(keyword string) error {
	p.skipComments()
	tok := p.currentToken
	if tok == nil || tok.Type != TokenKeyword || string(tok.Value) != keyword {
		if tok != nil && tok.Type == TokenEOF && p.lexErr != nil {
			return p.lexErr
		}
		return fmt.Errorf("expected '%s' keyword", keyword)
	}
	p.nextToken()
	return nil
}

// expectInt consumes the current token as a non-negative integer.
func (p *Parser) expectInt(what string) (int, error) {
	p.skipComments()
	tok := p.currentToken
	if tok == nil || tok.Type != TokenInteger {
		return 0, fmt.Errorf("expected %s", what)
	}
	n, err := strconv.Atoi(string(tok.Value))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", what, tok.Value)
	}
	p.nextToken()
	return n, nil
}

// ParseIndirectObject parses an indirect object definition.
// Format: "num gen obj <object> endobj" or "num gen obj <dict> stream ... endstream endobj"
func (p *Parser) ParseIndirectObject() (*IndirectObject, error) {
	num, err := p.expectInt("object number")
	if err != nil {
		return nil, err
	}
	gen, err := p.expectInt("generation number")
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("obj"); err != nil {
		return nil, err
	}

	obj, err := p.ParseObject()
	if err != nil {
		return nil, fmt.Errorf("error parsing indirect object value: %w", err)
	}

	if p.currentToken.Type == TokenKeyword && string(p.currentToken.Value) == "stream" {
		dict, ok := obj.(Dict)
		if !ok {
			return nil, fmt.Errorf("stream must follow a dictionary")
		}
		stream, err := p.parseStream(dict)
		if err != nil {
			return nil, fmt.Errorf("error parsing stream: %w", err)
		}
		obj = stream
	}

	// A missing endobj is tolerated; many writers get it wrong and the
	// object value is complete at this point.
	p.expectKeyword("endobj")

	return &IndirectObject{
		Ref:    IndirectRef{Number: num, Generation: gen},
		Object: obj,
	}, nil
}

// parseStream reads the stream data following the "stream" keyword,
// using the dictionary's /Length entry.
func (p *Parser) parseStream(dict Dict) (*Stream, error) {
	length, err := p.streamLength(dict)
	if err != nil {
		return nil, err
	}

	if err := p.lexer.SkipStreamEOL(); err != nil {
		return nil, fmt.Errorf("failed to skip EOL after stream keyword: %w", err)
	}

	data, err := p.lexer.ReadBytes(length)
	if err != nil {
		return nil, fmt.Errorf("failed to read stream data: %w", err)
	}

	token, err := p.lexer.NextToken()
	if err != nil {
		return nil, fmt.Errorf("failed to read token after stream data: %w", err)
	}
	if token.Type != TokenKeyword || string(token.Value) != "endstream" {
		return nil, fmt.Errorf("expected 'endstream' keyword, got %q", token.Value)
	}

	// Reload current and peek from the position after endstream.
	p.currentToken = nil
	p.peekToken = nil
	p.nextToken()
	p.nextToken()

	return &Stream{Dict: dict, Data: data}, nil
}

func (p *Parser) streamLength(dict Dict) (int, error) {
	var length Int
	switch v := dict.Get("Length").(type) {
	case Int:
		length = v
	case IndirectRef:
		if p.resolver == nil {
			return 0, fmt.Errorf("indirect reference for stream length requires a reference resolver")
		}
		resolved, err := p.resolver.Lookup(v)
		if err != nil {
			return 0, fmt.Errorf("failed to resolve stream length reference: %w", err)
		}
		n, ok := resolved.(Int)
		if !ok {
			return 0, fmt.Errorf("stream length reference resolved to %s, expected integer", TypeOf(resolved))
		}
		length = n
	case nil:
		return 0, fmt.Errorf("stream dictionary missing 'Length' entry")
	default:
		return 0, fmt.Errorf("invalid type for stream length: %s", v.Type())
	}

	if length < 0 {
		return 0, fmt.Errorf("invalid stream length: %d", length)
	}
	return int(length), nil
}
