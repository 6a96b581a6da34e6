package remote

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/marben/irpc/irpcgen"
	mandel "github.com/marben/mandel_explorer"
)

var tileRendererID = func() []byte {
	h := sha256.Sum256([]byte("github.com/marben/mandel_explorer/remote.TileRenderer"))
	return h[:]
}()

const renderTileFunc irpcgen.FuncId = 0

// TileService serves a TileRenderer to the other end of an irpc endpoint.
type TileService struct {
	impl TileRenderer
}

var _ irpcgen.Service = (*TileService)(nil)

func NewTileService(impl TileRenderer) *TileService {
	return &TileService{impl: impl}
}

func (s *TileService) Id() []byte {
	return tileRendererID
}

func (s *TileService) GetFuncCall(funcId irpcgen.FuncId) (irpcgen.ArgDeserializer, error) {
	switch funcId {
	case renderTileFunc:
		return func(d *irpcgen.Decoder) (irpcgen.FuncExecutor, error) {
			var args tileReq
			if err := args.Deserialize(d); err != nil {
				return nil, err
			}
			return func(ctx context.Context) irpcgen.Serializable {
				var resp tileResp
				resp.pix, resp.err = s.impl.RenderTile(ctx, args.TileRequest)
				return resp
			}, nil
		}, nil
	default:
		return nil, fmt.Errorf("function '%d' doesn't exist on service '%x'", funcId, s.Id())
	}
}

// Client implements TileRenderer by calling the counterpart's TileService.
type Client struct {
	endpoint irpcgen.Endpoint
}

var _ TileRenderer = (*Client)(nil)

func NewClient(endpoint irpcgen.Endpoint) (*Client, error) {
	if err := endpoint.RegisterClient(tileRendererID); err != nil {
		return nil, fmt.Errorf("register failed: %w", err)
	}
	return &Client{endpoint: endpoint}, nil
}

func (c *Client) RenderTile(ctx context.Context, req TileRequest) ([]byte, error) {
	var resp tileResp
	if err := c.endpoint.CallRemoteFunc(ctx, tileRendererID, renderTileFunc, tileReq{req}, &resp); err != nil {
		return nil, err
	}
	return resp.pix, resp.err
}

type tileReq struct {
	TileRequest
}

func (s tileReq) Serialize(e *irpcgen.Encoder) error {
	p := s.Params
	ints := []struct {
		name string
		v    int
	}{
		{"screen.x", p.Screen.X}, {"screen.y", p.Screen.Y},
		{"maxIterations", p.MaxIterations}, {"precision", int(p.Precision)},
		{"tile.min.x", s.Tile.Min.X}, {"tile.min.y", s.Tile.Min.Y},
		{"tile.max.x", s.Tile.Max.X}, {"tile.max.y", s.Tile.Max.Y},
	}
	for _, f := range ints {
		if err := irpcgen.EncInt(e, f.v); err != nil {
			return fmt.Errorf("serialize %q of type int: %w", f.name, err)
		}
	}
	floats := []struct {
		name string
		v    float64
	}{
		{"position.x", p.Position.X}, {"position.y", p.Position.Y},
		{"positionLo.x", p.PositionLo.X}, {"positionLo.y", p.PositionLo.Y},
		{"zoom", p.Zoom}, {"time", p.Time},
		{"palette.base.r", s.Palette.Base[0]}, {"palette.base.g", s.Palette.Base[1]},
		{"palette.base.b", s.Palette.Base[2]}, {"palette.brightness", s.Palette.Brightness},
	}
	for _, f := range floats {
		if err := irpcgen.EncFloat64(e, f.v); err != nil {
			return fmt.Errorf("serialize %q of type float64: %w", f.name, err)
		}
	}
	bg := s.Palette.Background
	for _, v := range []uint8{bg.R, bg.G, bg.B, bg.A} {
		if err := irpcgen.EncUint8(e, v); err != nil {
			return fmt.Errorf("serialize \"palette.background\" of type uint8: %w", err)
		}
	}
	if err := irpcgen.EncBool(e, s.Banded); err != nil {
		return fmt.Errorf("serialize \"banded\" of type bool: %w", err)
	}
	return nil
}

func (s *tileReq) Deserialize(d *irpcgen.Decoder) error {
	p := &s.Params
	var precision int
	ints := []struct {
		name string
		v    *int
	}{
		{"screen.x", &p.Screen.X}, {"screen.y", &p.Screen.Y},
		{"maxIterations", &p.MaxIterations}, {"precision", &precision},
		{"tile.min.x", &s.Tile.Min.X}, {"tile.min.y", &s.Tile.Min.Y},
		{"tile.max.x", &s.Tile.Max.X}, {"tile.max.y", &s.Tile.Max.Y},
	}
	for _, f := range ints {
		if err := irpcgen.DecInt(d, f.v); err != nil {
			return fmt.Errorf("deserialize %s of type int: %w", f.name, err)
		}
	}
	p.Precision = mandel.PrecisionMode(precision)
	floats := []struct {
		name string
		v    *float64
	}{
		{"position.x", &p.Position.X}, {"position.y", &p.Position.Y},
		{"positionLo.x", &p.PositionLo.X}, {"positionLo.y", &p.PositionLo.Y},
		{"zoom", &p.Zoom}, {"time", &p.Time},
		{"palette.base.r", &s.Palette.Base[0]}, {"palette.base.g", &s.Palette.Base[1]},
		{"palette.base.b", &s.Palette.Base[2]}, {"palette.brightness", &s.Palette.Brightness},
	}
	for _, f := range floats {
		if err := irpcgen.DecFloat64(d, f.v); err != nil {
			return fmt.Errorf("deserialize %s of type float64: %w", f.name, err)
		}
	}
	bg := &s.Palette.Background
	for _, v := range []*uint8{&bg.R, &bg.G, &bg.B, &bg.A} {
		if err := irpcgen.DecUint8(d, v); err != nil {
			return fmt.Errorf("deserialize palette.background of type uint8: %w", err)
		}
	}
	if err := irpcgen.DecBool(d, &s.Banded); err != nil {
		return fmt.Errorf("deserialize banded of type bool: %w", err)
	}
	return nil
}

type tileResp struct {
	pix []byte
	err error
}

func (s tileResp) Serialize(e *irpcgen.Encoder) error {
	if err := irpcgen.EncByteSlice(e, s.pix); err != nil {
		return fmt.Errorf("serialize \"pix\" of type []byte: %w", err)
	}
	isNil := s.err == nil
	if err := irpcgen.EncIsNil(e, isNil); err != nil {
		return fmt.Errorf("serialize isNil == %t: %w", isNil, err)
	}
	if isNil {
		return nil
	}
	if err := irpcgen.EncString(e, s.err.Error()); err != nil {
		return fmt.Errorf("serialize \"err.Error()\" of type string: %w", err)
	}
	return nil
}

func (s *tileResp) Deserialize(d *irpcgen.Decoder) error {
	if err := irpcgen.DecByteSlice(d, &s.pix); err != nil {
		return fmt.Errorf("deserialize pix of type []byte: %w", err)
	}
	var isNil bool
	if err := irpcgen.DecIsNil(d, &isNil); err != nil {
		return fmt.Errorf("deserialize isNil: %w", err)
	}
	if isNil {
		s.err = nil
		return nil
	}
	var remoteErr remoteError
	if err := irpcgen.DecString(d, &remoteErr.msg); err != nil {
		return fmt.Errorf("deserialize err string: %w", err)
	}
	s.err = remoteErr
	return nil
}

// remoteError carries the message of an error returned on the other end.
type remoteError struct {
	msg string
}

func (e remoteError) Error() string {
	return e.msg
}
