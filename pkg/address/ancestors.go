package address

import "strings"

// Ancestors 生成地址的查找序列（最具体优先）
//
// 序列依次为：原始地址（含查询串），然后剥离查询串后路径的每个真前缀
// 交替给出通配形式 "p/" 与裸形式 "p"，最后是空路径 ""。
// 剥离查询串后的地址本身不是候选，"a/b?x=1" 不会匹配 "a/b"。
// 重复的候选只出现一次，因此以 "/" 结尾的地址不会被二次展开。
//
// 序列有限，长度不超过 2*段数+3。
func Ancestors(addr string) []string {
	out := make([]string, 0, 8)
	seen := make(map[string]struct{}, 8)
	add := func(s string) {
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	add(addr)
	base, _, _ := strings.Cut(addr, "?")
	path := strings.Split(base, "/")
	path = path[:len(path)-1]
	for len(path) > 0 {
		p := strings.Join(path, "/")
		add(p + "/")
		add(p)
		path = path[:len(path)-1]
	}
	add("")
	return out
}
