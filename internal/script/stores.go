package script

import (
	"github.com/dop251/goja"
	"github.com/fullstack-project/fullstack-go/internal/store"
	json "github.com/goccy/go-json"
)

// storeWrapper provides a JavaScript-friendly interface to a store
type storeWrapper struct {
	runtime *goja.Runtime
	store   *store.Store
}

func (sw *storeWrapper) save(key string, value interface{}) {
	sw.store.StoreValue(key, value)
}

func (sw *storeWrapper) load(key string) interface{} {
	val, found := sw.store.GetValue(key)
	if !found {
		return nil
	}
	return val
}

func (sw *storeWrapper) loadAsJson(key string) interface{} {
	val, found := sw.store.GetValue(key)
	if !found {
		return nil
	}

	// If it's already a string, try to parse it as JSON
	if str, ok := val.(string); ok {
		var jsonData interface{}
		if err := json.Unmarshal([]byte(str), &jsonData); err == nil {
			return sw.runtime.ToValue(jsonData)
		}
	}

	// Otherwise round-trip through JSON to normalise the types
	jsonBytes, err := json.Marshal(val)
	if err != nil {
		return nil
	}
	var jsonData interface{}
	if err := json.Unmarshal(jsonBytes, &jsonData); err != nil {
		return nil
	}
	return sw.runtime.ToValue(jsonData)
}

func (sw *storeWrapper) delete(key string) {
	sw.store.DeleteValue(key)
}

func (sw *storeWrapper) loadAll() interface{} {
	return sw.store.GetAllValues("")
}

func (sw *storeWrapper) hasItemWithKey(key string) bool {
	_, found := sw.store.GetValue(key)
	return found
}

func (h *Handler) storesObject(vm *goja.Runtime) map[string]interface{} {
	stores := make(map[string]interface{})
	stores["open"] = func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			panic(vm.ToValue("store name must be provided"))
		}
		if h.provider == nil {
			panic(vm.ToValue("no store provider configured"))
		}
		wrapper := &storeWrapper{
			runtime: vm,
			store:   store.Open(h.provider, call.Arguments[0].String()),
		}

		obj := vm.NewObject()
		_ = obj.Set("save", wrapper.save)
		_ = obj.Set("load", wrapper.load)
		_ = obj.Set("loadAsJson", wrapper.loadAsJson)
		_ = obj.Set("delete", wrapper.delete)
		_ = obj.Set("loadAll", wrapper.loadAll)
		_ = obj.Set("hasItemWithKey", wrapper.hasItemWithKey)
		return obj
	}
	return stores
}
