package packet

// References returns the handles cmd points at other than its own target:
// transforms, animation bindings, group children. Null handles are omitted.
func References(cmd Command) []Handle {
	var refs []Handle
	add := func(hs ...Handle) {
		for _, h := range hs {
			if !h.IsNull() {
				refs = append(refs, h)
			}
		}
	}
	switch c := cmd.(type) {
	case AmbientLight:
		add(c.ColorAnimation)
	case DirectionalLight:
		add(c.Transform, c.ColorAnimation, c.DirectionAnimation)
	case PointLight:
		add(c.Transform, c.ColorAnimation, c.PositionAnimation, c.RangeAnimation)
	case TranslateTransform3D:
		add(c.OffsetAnimation)
	case ScaleTransform3D:
		add(c.ScaleAnimation)
	case Model3DGroup:
		add(c.Transform)
		add(c.Children...)
	}
	return refs
}
