package container

import (
	"fmt"

	"github.com/retroenv/retrocheat/internal/codecipher"
	"github.com/retroenv/retrocheat/internal/cursor"
	"github.com/retroenv/retrocheat/internal/model"
	"github.com/retroenv/retrocheat/internal/romerr"
	"github.com/retroenv/retrogolib/log"
)

const (
	nameMaxLen    = 30
	enabledFlag   = 0x80
	codeCountMask = 0x7F
	maxCheats     = 0xFF
)

func (r *ROM) parseGames() error {
	c := cursor.NewBE(r.image)
	if err := c.Seek(r.Layout.Games); err != nil {
		return err
	}

	count, err := c.ReadU32()
	if err != nil {
		return err
	}
	// every game occupies at least a terminator and a cheat count
	if int(count) > c.Remaining()/2 {
		return romerr.NewFormatError(r.Layout.Name, "game count %d exceeds the game list region", count)
	}

	r.Games = make([]model.Game, 0, count)
	for i := range int(count) {
		game, err := r.parseGame(c, i)
		if err != nil {
			return fmt.Errorf("game %d: %w", i, err)
		}
		r.Games = append(r.Games, game)
	}

	r.gamesEnd = c.Pos()
	return nil
}

func (r *ROM) parseGame(c *cursor.Cursor, index int) (model.Game, error) {
	name, raw, err := r.readName(c)
	if err != nil {
		return model.Game{}, err
	}
	cheatCount, err := c.ReadU8()
	if err != nil {
		return model.Game{}, err
	}

	game := model.Game{
		Name:   name,
		Raw:    raw,
		Index:  index,
		Cheats: make([]model.Cheat, 0, cheatCount),
	}
	for i := range int(cheatCount) {
		cheat, err := r.parseCheat(c, i)
		if err != nil {
			return model.Game{}, fmt.Errorf("cheat %d of '%s': %w", i, name, err)
		}
		game.Cheats = append(game.Cheats, cheat)
	}
	return game, nil
}

func (r *ROM) parseCheat(c *cursor.Cursor, index int) (model.Cheat, error) {
	name, raw, err := r.readName(c)
	if err != nil {
		return model.Cheat{}, err
	}
	flags, err := c.ReadU8()
	if err != nil {
		return model.Cheat{}, err
	}

	codeCount := int(flags & codeCountMask)
	cheat := model.Cheat{
		Name:    name,
		Raw:     raw,
		Index:   index,
		Enabled: flags&enabledFlag != 0,
		Codes:   make([]model.Code, 0, codeCount),
	}
	for range codeCount {
		code, err := r.readCode(c)
		if err != nil {
			return model.Cheat{}, err
		}
		cheat.Codes = append(cheat.Codes, code)
	}
	return cheat, nil
}

func (r *ROM) readCode(c *cursor.Cursor) (model.Code, error) {
	offset := c.Pos()
	raw, err := c.ReadBytes(codecipher.CodeSize)
	if err != nil {
		return model.Code{}, err
	}

	var code model.Code
	if !r.Layout.Ciphered {
		copy(code.Bytes[:], raw)
		return code, nil
	}

	method, ok := codecipher.Detect(raw)
	if !ok {
		r.logger.Warn("Unknown code encryption, keeping code as stored",
			log.Hex("offset", offset),
			log.Hex("opcode", raw[0]))
		copy(code.Bytes[:], raw)
		return code, nil
	}

	plain, err := codecipher.Decrypt(raw, method)
	if err != nil {
		return model.Code{}, fmt.Errorf("decrypting code at offset 0x%X: %w", offset, err)
	}
	copy(code.Bytes[:], plain)
	code.Method = method
	return code, nil
}

func (r *ROM) readName(c *cursor.Cursor) (string, []byte, error) {
	s, err := c.ReadCString(nameMaxLen, true, cursor.Printable)
	if err != nil {
		return "", nil, err
	}
	return r.decodeName(s.Raw), s.Raw, nil
}

func (r *ROM) decodeName(raw []byte) string {
	if r.Layout.Tokens {
		return expandTokens(raw)
	}
	return cursor.DecodeString(raw)
}

// encodeName returns the on-disk bytes of a name, reusing the source bytes
// of unedited names.
func (r *ROM) encodeName(name string, raw []byte) ([]byte, error) {
	if raw != nil && r.decodeName(raw) == name {
		return raw, nil
	}

	var b []byte
	if r.Layout.Tokens {
		b = collapseTokens(name)
	} else {
		b = cursor.EncodeString(name)
	}
	if len(b) > nameMaxLen {
		return nil, fmt.Errorf("name '%s' exceeds %d bytes", name, nameMaxLen)
	}
	return b, nil
}

func (r *ROM) writeName(c *cursor.Cursor, name string, raw []byte) error {
	b, err := r.encodeName(name, raw)
	if err != nil {
		return err
	}
	if len(b) < nameMaxLen {
		return c.WriteCString(b)
	}
	return c.WriteBytes(b)
}

// writeGames writes the game list and fills the space freed by a shorter
// list with 0xFF.
func (r *ROM) writeGames(out []byte) error {
	c := cursor.NewBE(out)
	if err := c.Seek(r.Layout.Games); err != nil {
		return err
	}
	if err := c.WriteU32(uint32(len(r.Games))); err != nil {
		return err
	}

	for i, game := range r.Games {
		if err := r.writeGame(c, game); err != nil {
			return fmt.Errorf("game %d: %w", i, err)
		}
	}

	if end := c.Pos(); end < r.gamesEnd {
		if err := c.Fill(0xFF, int(r.gamesEnd-end)); err != nil {
			return err
		}
	}
	return nil
}

func (r *ROM) writeGame(c *cursor.Cursor, game model.Game) error {
	if len(game.Cheats) > maxCheats {
		return fmt.Errorf("game '%s' has %d cheats, maximum is %d", game.Name, len(game.Cheats), maxCheats)
	}
	if err := r.writeName(c, game.Name, game.Raw); err != nil {
		return err
	}
	if err := c.WriteU8(uint8(len(game.Cheats))); err != nil {
		return err
	}

	for _, cheat := range game.Cheats {
		if err := r.writeCheat(c, cheat); err != nil {
			return fmt.Errorf("cheat '%s': %w", cheat.Name, err)
		}
	}
	return nil
}

func (r *ROM) writeCheat(c *cursor.Cursor, cheat model.Cheat) error {
	if len(cheat.Codes) > codeCountMask {
		return fmt.Errorf("%d codes exceed the maximum of %d", len(cheat.Codes), codeCountMask)
	}
	if err := r.writeName(c, cheat.Name, cheat.Raw); err != nil {
		return err
	}

	flags := uint8(len(cheat.Codes))
	if cheat.Enabled {
		flags |= enabledFlag
	}
	if err := c.WriteU8(flags); err != nil {
		return err
	}

	for _, code := range cheat.Codes {
		b, err := codecipher.Encrypt(code.Bytes[:], code.Method)
		if err != nil {
			return err
		}
		if err := c.WriteBytes(b); err != nil {
			return err
		}
	}
	return nil
}
