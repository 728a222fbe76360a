package sample

func broken( {
