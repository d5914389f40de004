package main

import (
	"syscall/js"
)

type colorChoice struct {
	part, color string
}

// bindMenus fills the color menus of the parts and forwards selections to ch.
func bindMenus(doc js.Value, v *viewer, ch chan<- colorChoice, logPrint func(interface{})) {
	for _, p := range v.parts.MenuParts() {
		p := p
		menu := doc.Call("querySelector", ".menu."+p.Name)
		if menu.IsNull() {
			logPrint("menu not found: " + p.Name)
			continue
		}
		items := menu.Call("querySelector", ".items")
		if items.IsNull() {
			items = menu
		}
		items.Call("insertAdjacentHTML", "afterbegin", swatchesHTML(v.cfg.Colors, p.Color))
		menu.Set("onclick", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
			el := args[0].Get("target").Call("closest", "[data-color]:not(.selected)")
			if el.IsNull() {
				return nil
			}
			if prev := menu.Call("querySelector", ".selected"); !prev.IsNull() {
				prev.Get("classList").Call("remove", "selected")
			}
			el.Get("classList").Call("add", "selected")
			ch <- colorChoice{part: p.Name, color: el.Get("dataset").Get("color").String()}
			return nil
		}))
	}

	doc.Get("body").Call("addEventListener", "pointerdown",
		js.FuncOf(func(this js.Value, args []js.Value) interface{} {
			target := args[0].Get("target")
			menu := target.Call("closest", ".menu")
			label := target.Call("closest", "label")
			switch {
			case !menu.IsNull() && !label.IsNull():
				menu.Get("classList").Call("toggle", "open")
			case menu.IsNull() && label.IsNull():
				menus := doc.Call("querySelectorAll", ".menu")
				for i := 0; i < menus.Length(); i++ {
					menus.Index(i).Get("classList").Call("remove", "open")
				}
			}
			return nil
		}),
	)
}
